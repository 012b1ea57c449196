package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/corbelan/sqlany/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schema-inspection HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, cleanup, err := openReader()
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = cfg.Server.Addr
			}

			srv := server.New(reader, log)
			log.Infof("listening on %s", addr)
			return http.ListenAndServe(addr, srv.Routes())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to server.addr from config)")
	return cmd
}
