package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/corbelan/sqlany/internal/snapshot"
	"github.com/corbelan/sqlany/internal/snapshot/minio"
	"github.com/corbelan/sqlany/internal/sqlany"
)

func newDumpCmd() *cobra.Command {
	var (
		outPath string
		upload  bool
		label   string
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump the full schema as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, cleanup, err := openReader()
			if err != nil {
				return err
			}
			defer cleanup()

			schema, err := sqlany.Inspect(cmd.Context(), reader)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(schema)
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					return err
				}
				log.Infof("schema written to %s", outPath)
			} else {
				if _, err := cmd.OutOrStdout().Write(data); err != nil {
					return err
				}
			}

			if !upload {
				return nil
			}

			store, err := minio.New(cmd.Context(), &snapshot.Config{
				Endpoint:  cfg.Snapshot.Endpoint,
				AccessKey: cfg.Snapshot.AccessKey,
				SecretKey: cfg.Snapshot.SecretKey,
				Bucket:    cfg.Snapshot.Bucket,
				Region:    cfg.Snapshot.Region,
				UseSSL:    cfg.Snapshot.UseSSL,
			})
			if err != nil {
				return err
			}

			key := snapshot.Key(label, time.Now())
			if err := store.Put(cmd.Context(), key, data, "application/yaml"); err != nil {
				return err
			}
			log.Infof("snapshot uploaded to %s/%s", cfg.Snapshot.Bucket, key)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the dump to a file instead of stdout")
	cmd.Flags().BoolVar(&upload, "upload", false, "upload the dump to the snapshot store")
	cmd.Flags().StringVar(&label, "label", "sqlany", "snapshot key prefix")
	return cmd
}
