package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-surveygen/pkg/submission"
)

func newSubmissionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submissions <survey-id>",
		Short: "List the stored submissions of a survey",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Storage.Database
			if path == "" {
				return errors.New("no database configured: pass --db or set storage.database")
			}
			sink, err := submission.OpenSQLite(path)
			if err != nil {
				return err
			}
			defer sink.Close()

			payloads, err := sink.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, payload := range payloads {
				if err := enc.Encode(payload); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().String("db", "", "SQLite database holding submissions")
	return cmd
}
