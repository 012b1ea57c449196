// Command sqlanyctl inspects SQL Anywhere schemas: listing catalog
// objects, dumping the full schema to YAML, and serving it over HTTP.
//
// The database/sql driver named in the configuration must be registered
// by the build that links this package.
package main

import (
	"database/sql"
	"os"

	"github.com/spf13/cobra"

	"github.com/corbelan/sqlany/internal/config"
	"github.com/corbelan/sqlany/internal/database"
	"github.com/corbelan/sqlany/internal/errs"
	"github.com/corbelan/sqlany/internal/logger"
	"github.com/corbelan/sqlany/internal/sqlany"
)

var (
	cfgPath string
	cfg     *config.Config
	log     *logger.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sqlanyctl",
		Short:         "Inspect SQL Anywhere schemas",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfgPath != "" {
				cfg, err = config.Load(cfgPath)
				if err != nil {
					return err
				}
			} else {
				cfg = config.Default()
				cfg.Database.DSN = os.Getenv("SQLANY_DSN")
			}
			log = logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to YAML config file")
	root.AddCommand(
		newTablesCmd(),
		newViewsCmd(),
		newIndexesCmd(),
		newForeignKeysCmd(),
		newDumpCmd(),
		newServeCmd(),
	)
	return root
}

// openReader opens the configured database and returns a catalog reader
// plus a cleanup func.
func openReader() (*sqlany.Reader, func(), error) {
	if cfg.Database.DSN == "" {
		return nil, nil, errs.New(errs.ErrKindInvalidInput,
			"no DSN configured (set database.dsn or SQLANY_DSN)")
	}

	db, err := sql.Open(cfg.Database.DriverName, cfg.Database.DSN)
	if err != nil {
		return nil, nil, errs.Wrap(errs.ErrKindConnectionFailed, "open database", err)
	}

	conn := database.NewSQLConn(db)
	return sqlany.NewReader(conn, log), func() { _ = db.Close() }, nil
}
