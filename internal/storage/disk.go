package storage

import "os"

// SizeBytes returns the on-disk size of the database including its WAL and shared-memory files.
// In-memory databases report 0.
func (s *SQLiteDictionary) SizeBytes() (int64, error) {
	if s.path == "" || s.path == ":memory:" {
		return 0, nil
	}
	var total int64
	for _, p := range []string{s.path, s.path + "-wal", s.path + "-shm"} {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}
