package utils

import (
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("debug mode returns development logger", func(t *testing.T) {
		logger, err := NewLogger(true, "")
		if err != nil {
			t.Fatalf("NewLogger(true) error: %v", err)
		}
		if !logger.Core().Enabled(-1) {
			t.Error("debug logger should enable debug level")
		}
		_ = logger.Sync()
	})

	t.Run("production mode returns info logger", func(t *testing.T) {
		for _, format := range []string{"", "json", "console"} {
			logger, err := NewLogger(false, format)
			if err != nil {
				t.Fatalf("NewLogger(false, %q) error: %v", format, err)
			}
			if logger.Core().Enabled(-1) {
				t.Errorf("format %q: production logger should not enable debug level", format)
			}
			_ = logger.Sync()
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := NewLogger(false, "xml"); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
