package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/fbz-tec/csvstream/core/csvstream"
	"github.com/fbz-tec/csvstream/core/db"
	"github.com/fbz-tec/csvstream/core/httpsink"
	"github.com/fbz-tec/csvstream/core/sources"
	"github.com/fbz-tec/csvstream/core/validation"
	"github.com/fbz-tec/csvstream/internal/logger"
	"github.com/spf13/cobra"
)

const defaultDownloadName = "export.csv"

var (
	serveAddr       string
	allowQuery      bool
	maxConns        int
	shutdownTimeout time.Duration
	bufferOutput    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve CSV exports over HTTP",
	Long: `Serve starts an HTTP server that streams query results as CSV.

  GET /export    runs the configured query (or ?sql= with --allow-query)
  GET /metrics   Prometheus metrics
  GET /healthz   database reachability

Export requests accept delimiter, newline, charset, bom, header, buffer and
filename query parameters.`,
	Example: `  csvstream serve -s "SELECT * FROM orders" --addr :8080
  curl -OJ 'http://localhost:8080/export?delimiter=semicolon&charset=windows-1252&filename=orders.csv'`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().SortFlags = false
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from SERVER_ADDR or :8080)")
	serveCmd.Flags().StringVarP(&sqlQuery, "sql", "s", "", "SQL query served by /export")
	serveCmd.Flags().StringVarP(&sqlFile, "sqlfile", "F", "", "Path to SQL file containing the query served by /export")
	serveCmd.Flags().BoolVar(&allowQuery, "allow-query", false, "Let clients pass a read-only query in the sql parameter")
	serveCmd.Flags().IntVar(&maxConns, "max-conns", 0, "Maximum database connections (default from DB_MAX_CONNS or 4)")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Time given to running exports on shutdown")
	serveCmd.Flags().BoolVar(&bufferOutput, "buffer", false, "Buffer whole responses by default instead of streaming them")
}

func runServe(cmd *cobra.Command, args []string) error {
	if sqlQuery != "" && sqlFile != "" {
		return fmt.Errorf("cannot use both --sql and --sqlfile at the same time")
	}

	cfg := loadConfig()
	base, err := csvOptions(cmd, cfg)
	if err != nil {
		return err
	}
	base.BufferOutput = bufferOutput
	if !noHeader {
		// Replaced by the result columns of each request.
		base.Header = []string{}
	}

	var query string
	if sqlQuery != "" || sqlFile != "" {
		if query, err = readQuery(); err != nil {
			return err
		}
	} else if !allowQuery {
		return fmt.Errorf("either --sql, --sqlfile or --allow-query must be provided")
	}

	dsn, err := resolveDSN(cfg)
	if err != nil {
		return err
	}
	if serveAddr == "" {
		serveAddr = cfg.ServerAddr
	}
	if maxConns <= 0 {
		maxConns = cfg.DBMaxConns
	}

	ctx, stop := withSignals(cmd.Context())
	defer stop()

	store := db.NewPgStore(dsn, int32(maxConns))
	if err := store.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	export := httpsink.NewHandler(openQueryExport(store, query, base))
	srv := httpsink.NewServer(serveAddr, export, store.Ping, httpsink.WithShutdownTimeout(shutdownTimeout))

	logger.Info("Listening on %s (max %d database connections)", serveAddr, maxConns)
	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// openQueryExport builds the encoder of one /export request: CSV options
// from the query string, then the query result as records.
func openQueryExport(store db.Store, defaultQuery string, base csvstream.Options) httpsink.OpenFunc[sources.Row] {
	return func(r *http.Request) (*csvstream.Encoder[sources.Row], string, error) {
		params := r.URL.Query()

		opts, err := httpsink.OptionsFromQuery(params, base)
		if err != nil {
			return nil, "", httpsink.BadRequest(err)
		}
		if _, err := csvstream.LookupCharset(opts.Charset); err != nil {
			return nil, "", httpsink.BadRequest(err)
		}

		query := defaultQuery
		if q := params.Get("sql"); q != "" {
			if !allowQuery {
				return nil, "", httpsink.BadRequest(errors.New("sql parameter is disabled on this server"))
			}
			if err := validation.ValidateQuery(q); err != nil {
				return nil, "", httpsink.BadRequest(err)
			}
			query = q
		}
		if query == "" {
			return nil, "", httpsink.BadRequest(errors.New("missing sql parameter"))
		}

		rows, err := store.Query(r.Context(), query)
		if err != nil {
			return nil, "", err
		}
		records := sources.NewPgRecords(rows)

		if opts.Header != nil {
			opts.Header = records.Columns()
		}
		enc, err := csvstream.NewEncoderWithOptions(records, sources.Project(records.Columns(), timeFormat, timeZone), opts)
		if err != nil {
			records.Close()
			return nil, "", err
		}
		return enc, downloadName(params.Get("filename")), nil
	}
}

func downloadName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == string(filepath.Separator) {
		return defaultDownloadName
	}
	return name
}
