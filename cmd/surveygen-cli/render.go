package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-surveygen/pkg/orchestrator"
	"github.com/goliatone/go-surveygen/pkg/render"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		out    string
		preset string
		groups []string
	)

	cmd := &cobra.Command{
		Use:   "render <file|url>",
		Short: "Render a survey document to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := parseSource(args[0])
			if err != nil {
				return err
			}

			opts := []orchestrator.Option{orchestrator.WithLogger(a.logger)}
			if preset != "" {
				transformer, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS(filepath.Dir(preset)), filepath.Base(preset))
				if err != nil {
					return err
				}
				opts = append(opts, orchestrator.WithTransformer(transformer))
			}

			output, err := orchestrator.New(opts...).Generate(cmd.Context(), orchestrator.Request{
				Source:   src,
				Renderer: a.cfg.Render.Renderer,
				Options: render.RenderOptions{
					Groups: groups,
					Locale: a.cfg.Render.Locale,
				},
			})
			if err != nil {
				return fmt.Errorf("render survey: %w", err)
			}
			return writeOutput(cmd, out, output)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&out, "out", "o", "", "output file (stdout if empty)")
	flags.StringVar(&preset, "preset", "", "JSON preset applied to the document before rendering")
	flags.StringSliceVar(&groups, "group", nil, "item groups to render (all when empty)")
	flags.String("renderer", "", "renderer name (default html)")
	flags.String("locale", "", "locale for labels and messages")
	return cmd
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Survey written to %s\n", path)
	return nil
}
