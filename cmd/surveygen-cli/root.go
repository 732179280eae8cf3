package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-surveygen/internal/config"
	"github.com/goliatone/go-surveygen/internal/logging"
	"github.com/goliatone/go-surveygen/pkg/element"
)

// flagKeys maps command flags onto config keys. Flags only override the
// config when set explicitly.
var flagKeys = map[string]string{
	"log-level":  "logging.level",
	"log-format": "logging.format",
	"renderer":   "render.renderer",
	"locale":     "render.locale",
	"addr":       "server.addr",
	"dir":        "server.dir",
	"redis":      "redis.addr",
	"db":         "storage.database",
}

// app carries state shared by every command once the config is loaded.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "surveygen",
		Short:        "Render, run and serve declarative surveys",
		Long:         "surveygen turns survey documents (JSON or YAML element trees) into HTML pages,\ninteractive terminal sessions and a small HTTP survey server.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./surveygen.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: text or json")

	root.AddCommand(
		newRenderCommand(a),
		newRunCommand(a),
		newLintCommand(a),
		newSchemaCommand(a),
		newServeCommand(a),
		newSubmissionsCommand(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	v, err := config.NewViper(a.cfgFile)
	if err != nil {
		return err
	}
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(a.logger)
	return nil
}

func parseSource(raw string) (element.Source, error) {
	p := strings.TrimSpace(raw)
	if p == "" {
		return nil, fmt.Errorf("invalid source: %q", raw)
	}
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return element.ParseURLSource(p)
	}
	return element.SourceFromFile(p), nil
}

// surveyID derives a stable id from a document location: the base name
// without its extension.
func surveyID(raw string) string {
	name := filepath.Base(raw)
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		name = path.Base(u.Path)
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
