package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-surveygen/internal/logging"
	"github.com/goliatone/go-surveygen/pkg/orchestrator"
	"github.com/goliatone/go-surveygen/pkg/render"
	"github.com/goliatone/go-surveygen/pkg/renderers/tui"
	"github.com/goliatone/go-surveygen/pkg/session"
	"github.com/goliatone/go-surveygen/pkg/submission"
	"github.com/goliatone/go-surveygen/pkg/validation"
)

func newRunCommand(a *app) *cobra.Command {
	var (
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "run <file|url>",
		Short: "Answer a survey interactively in the terminal",
		Long:  "Run walks the survey step by step in the terminal and prints the answers\nonce it is submitted. With --db the answers are also stored in SQLite.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := parseSource(args[0])
			if err != nil {
				return err
			}

			renderer, err := tui.New(
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithLogger(logging.Component(a.logger, "tui")),
			)
			if err != nil {
				return err
			}
			registry := render.NewRegistry()
			if err := registry.Register(renderer); err != nil {
				return err
			}
			orch := orchestrator.New(
				orchestrator.WithRegistry(registry),
				orchestrator.WithDefaultRenderer(tui.Name),
				orchestrator.WithLogger(a.logger),
			)

			var sink submission.Sink
			if path := a.cfg.Storage.Database; path != "" {
				store, err := submission.OpenSQLite(path)
				if err != nil {
					return err
				}
				defer store.Close()
				sink = store
			}

			id := surveyID(args[0])
			var s *session.Session
			s, err = orch.NewSession(ctx, orchestrator.Request{Source: src},
				session.WithLogger(a.logger),
				session.WithOnSubmit(func(ctx context.Context, answers validation.Values) error {
					if sink == nil {
						return nil
					}
					return sink.Store(ctx, submission.NewPayload(id, s.ID(), answers, s.StartedAt(), time.Now()))
				}),
			)
			if err != nil {
				return err
			}

			output, err := orch.Generate(ctx, orchestrator.Request{Session: s})
			if err != nil {
				return fmt.Errorf("run survey: %w", err)
			}
			if out == "" {
				output = append(output, '\n')
			}
			return writeOutput(cmd, out, output)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&out, "out", "o", "", "answers file (stdout if empty)")
	flags.StringVarP(&format, "format", "f", string(tui.OutputFormatJSON), "answers format: json, form or pretty")
	flags.String("db", "", "SQLite database receiving the submission")
	return cmd
}
