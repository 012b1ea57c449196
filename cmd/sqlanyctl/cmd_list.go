package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List user tables (owner-qualified)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, cleanup, err := openReader()
			if err != nil {
				return err
			}
			defer cleanup()

			tables, err := reader.ListTables(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range tables {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func newViewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List user views (owner-qualified)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, cleanup, err := openReader()
			if err != nil {
				return err
			}
			defer cleanup()

			views, err := reader.ListViews(cmd.Context())
			if err != nil {
				return err
			}
			for _, v := range views {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func newIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes <table>",
		Short: "List the user-defined indexes of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, cleanup, err := openReader()
			if err != nil {
				return err
			}
			defer cleanup()

			indexes, err := reader.ListIndexes(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, idx := range indexes {
				kind := "index"
				if idx.Unique {
					kind = "unique index"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t(%s)\n",
					idx.Name, kind, strings.Join(idx.Columns, ", "))
			}
			return nil
		},
	}
}

func newForeignKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fks <table>",
		Short: "List the single-column foreign keys of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, cleanup, err := openReader()
			if err != nil {
				return err
			}
			defer cleanup()

			fks, err := reader.ListForeignKeys(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, fk := range fks {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s -> %s(%s)\ton update %s, on delete %s\n",
					fk.Name, fk.Column, fk.ReferencedTable, fk.ReferencedColumn,
					fk.OnUpdate, fk.OnDelete)
			}
			return nil
		},
	}
}
