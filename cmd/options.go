package cmd

import (
	"fmt"

	"github.com/fbz-tec/csvstream/core/config"
	"github.com/fbz-tec/csvstream/core/csvstream"
	"github.com/fbz-tec/csvstream/core/validation"
	"github.com/fbz-tec/csvstream/internal/logger"
	"github.com/spf13/cobra"
)

// loadConfig reads .env and the environment, then applies connection flags.
func loadConfig() config.Config {
	logger.Debug("Loading configuration from environment and flags")
	cfg := config.LoadConfig()
	if dbHost != "" {
		cfg.DBHost = dbHost
		logger.Debug("Overriding DB host from flag: %s", dbHost)
	}
	if dbPort != 0 {
		cfg.DBPort = dbPort
		logger.Debug("Overriding DB port from flag: %d", dbPort)
	}
	if dbUser != "" {
		cfg.DBUser = dbUser
		logger.Debug("Overriding DB user from flag: %s", dbUser)
	}
	if dbName != "" {
		cfg.DBName = dbName
		logger.Debug("Overriding DB name from flag: %s", dbName)
	}
	if dbPassword != "" {
		cfg.DBPass = dbPassword
		logger.Debug("Overriding DB password from flag (hidden)")
	}
	return cfg
}

// resolveDSN returns --dsn when given, otherwise the validated connection
// string built from cfg.
func resolveDSN(cfg config.Config) (string, error) {
	if connString != "" {
		logger.Debug("Using connection string from --dsn flag")
		return connString, nil
	}
	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("configuration error: %w", err)
	}
	logger.Debug("Configuration loaded: host=%s port=%d database=%s user=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser)
	return cfg.GetConnectionString(), nil
}

// csvOptions merges CSV settings from cfg with the CSV flags. Flags win.
func csvOptions(cmd *cobra.Command, cfg config.Config) (csvstream.Options, error) {
	opts := csvstream.DefaultOptions()

	if err := validation.ValidateTimeSettings(timeFormat, timeZone); err != nil {
		return opts, err
	}

	delim := cfg.CSVDelimiter
	if delimiter != "" {
		delim = delimiter
	}
	d, err := csvstream.ParseDelimiter(delim)
	if err != nil {
		return opts, fmt.Errorf("invalid delimiter: %w", err)
	}
	opts.Delimiter = d

	nl := cfg.CSVNewLine
	if newLine != "" {
		nl = newLine
	}
	if nl != "" {
		if opts.NewLine, err = csvstream.ParseNewLine(nl); err != nil {
			return opts, fmt.Errorf("invalid newline: %w", err)
		}
	}

	opts.Charset = cfg.CSVEncoding
	if encoding != "" {
		opts.Charset = encoding
	}
	if _, err := csvstream.LookupCharset(opts.Charset); err != nil {
		return opts, err
	}

	opts.IncludePreamble = cfg.CSVBOM
	if cmd.Flags().Changed("bom") {
		opts.IncludePreamble = withBOM
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
