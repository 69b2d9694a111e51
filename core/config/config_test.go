package config

import (
	"strings"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"DB_DRIVER", "DB_USER", "DB_PASS", "DB_HOST", "DB_PORT", "DB_NAME", "DB_SSLMODE",
		"CSV_DELIMITER", "CSV_NEWLINE", "CSV_ENCODING", "CSV_BOM", "SERVER_ADDR", "DB_MAX_CONNS",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	cfg := LoadConfig()

	if cfg.DBHost != DefaultDBHost || cfg.DBPort != DefaultDBPort || cfg.DBUser != DefaultDBUser {
		t.Errorf("LoadConfig() db defaults = %s:%d user %s", cfg.DBHost, cfg.DBPort, cfg.DBUser)
	}
	if cfg.CSVDelimiter != "," || cfg.CSVEncoding != "utf-8" || cfg.CSVBOM || cfg.CSVNewLine != "" {
		t.Errorf("LoadConfig() csv defaults = %+v", cfg)
	}
	if cfg.ServerAddr != DefaultServerAddr {
		t.Errorf("ServerAddr = %q, want %q", cfg.ServerAddr, DefaultServerAddr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_PORT", "6543")
	t.Setenv("CSV_DELIMITER", ";")
	t.Setenv("CSV_ENCODING", "utf-16")
	t.Setenv("CSV_BOM", "true")
	t.Setenv("SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := LoadConfig()

	if cfg.DBPort != 6543 {
		t.Errorf("DBPort = %d, want 6543", cfg.DBPort)
	}
	if cfg.CSVDelimiter != ";" || cfg.CSVEncoding != "utf-16" || !cfg.CSVBOM {
		t.Errorf("csv settings = %q %q %v", cfg.CSVDelimiter, cfg.CSVEncoding, cfg.CSVBOM)
	}
	if cfg.ServerAddr != "127.0.0.1:9000" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr)
	}
	if cfg.DBMaxConns != DefaultMaxConns {
		t.Errorf("DBMaxConns = %d, want default %d on parse failure", cfg.DBMaxConns, DefaultMaxConns)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		DBHost: "localhost", DBPort: 5432, DBUser: "u", DBName: "d",
		CSVDelimiter: ",", DBMaxConns: 1,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.DBPort = 70000 }, "DB_PORT"},
		{"blank host", func(c *Config) { c.DBHost = "  " }, "DB_HOST"},
		{"blank name", func(c *Config) { c.DBName = "" }, "DB_NAME"},
		{"blank user", func(c *Config) { c.DBUser = "" }, "DB_USER"},
		{"no delimiter", func(c *Config) { c.CSVDelimiter = "" }, "CSV_DELIMITER"},
		{"no conns", func(c *Config) { c.DBMaxConns = 0 }, "DB_MAX_CONNS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestGetConnectionString(t *testing.T) {
	cfg := Config{DBDriver: "postgres", DBUser: "alice", DBPass: "p@ss", DBHost: "db", DBPort: 5432, DBName: "app", SSLMode: "disable"}

	want := "postgres://alice:p%40ss@db:5432/app?sslmode=disable"
	if got := cfg.GetConnectionString(); got != want {
		t.Errorf("GetConnectionString() = %q, want %q", got, want)
	}
}
