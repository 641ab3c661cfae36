package config

// DefaultConfigPath is where the CLI looks for a config file.
const DefaultConfigPath = "/usr/local/etc/kotoba/config.yaml"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 10
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/kotoba/data/dictionary.db"
	}
	if cfg.Interpreter.Strategy == "" {
		cfg.Interpreter.Strategy = "anchored"
	}
	if cfg.Interpreter.MaxMatches == 0 {
		cfg.Interpreter.MaxMatches = 10
	}
	if cfg.Interpreter.MaxTokens == 0 {
		cfg.Interpreter.MaxTokens = 16
	}
	if cfg.Interpreter.MaxPatterns == 0 {
		cfg.Interpreter.MaxPatterns = 2048
	}
	if cfg.Interpreter.MinTokenLength == 0 {
		cfg.Interpreter.MinTokenLength = 1
	}
	if cfg.Search.DefaultScope == "" {
		cfg.Search.DefaultScope = "product"
	}
	if cfg.Search.MinTermLength == 0 {
		cfg.Search.MinTermLength = 3
	}
	if cfg.Import.Extensions == nil {
		cfg.Import.Extensions = []string{".txt", ".md", ".csv", ".xlsx", ".pdf"}
	}
	if cfg.Import.Scope == "" {
		cfg.Import.Scope = cfg.Search.DefaultScope
	}
	if len(cfg.Import.Directories) > 0 && cfg.Import.Recursive == nil {
		t := true
		cfg.Import.Recursive = &t
	}
}
