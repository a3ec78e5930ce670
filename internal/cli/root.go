package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"imagestudio/internal/client"
	"imagestudio/internal/infra"
	"imagestudio/internal/repl"
	"imagestudio/internal/storage"
	"imagestudio/internal/studio"
)

var (
	version = "dev"
	commit  = "none"
)

// App carries the process environment so commands can be tested.
type App struct {
	In         io.Reader
	Out        io.Writer
	Err        io.Writer
	GetEnv     func(string) string
	IsTerminal func() bool
}

func DefaultApp() *App {
	return &App{
		In:     os.Stdin,
		Out:    os.Stdout,
		Err:    os.Stderr,
		GetEnv: os.Getenv,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

type flags struct {
	config       string
	server       string
	output       string
	scale        string
	pollInterval time.Duration
	logLevel     string
}

// NewRootCmd builds the studio command tree.
func NewRootCmd(app *App) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "studio",
		Short: "Interactive image generation studio",
		Long: `studio talks to the Image Studio API server and tracks generation jobs.

Examples:
  studio
  studio --server http://localhost:5000 --output ./images
  echo 'login apikey $KEY' | studio`,
		Args:          cobra.NoArgs,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := resolveProfile(cmd, f, app)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return runStudio(ctx, app, profile)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.config, "config", "", "profile path (defaults to $XDG_CONFIG_HOME/imagestudio/config.yaml)")
	pf.StringVar(&f.server, "server", "", "API server URL")
	pf.StringVarP(&f.output, "output", "o", "", "download directory")
	pf.StringVarP(&f.scale, "scale", "s", "", "default aspect ratio")
	pf.DurationVar(&f.pollInterval, "poll-interval", 0, "status polling interval")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newConfigCmd(app, f))
	return cmd
}

func newConfigCmd(app *App, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := resolveProfile(cmd, f, app)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(profile)
			if err != nil {
				return fmt.Errorf("failed to encode profile: %w", err)
			}
			_, err = app.Out.Write(out)
			return err
		},
	}
}

// resolveProfile layers explicitly set flags over the loaded profile.
func resolveProfile(cmd *cobra.Command, f *flags, app *App) (*Profile, error) {
	path := f.config
	if path == "" {
		path = DefaultProfilePath(app.GetEnv)
	}
	p, err := LoadProfile(path, app.GetEnv)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("server") {
		p.ServerURL = f.server
	}
	if changed("output") {
		p.OutputDir = f.output
	}
	if changed("scale") {
		p.DefaultScale = f.scale
	}
	if changed("poll-interval") {
		p.PollInterval = Duration(f.pollInterval)
	}
	if changed("log-level") {
		p.LogLevel = f.logLevel
	}
	return p, p.Validate()
}

func runStudio(ctx context.Context, app *App, p *Profile) error {
	logger := infra.NewLoggerTo(app.Err, infra.ParseLevel(p.LogLevel), true)

	api, err := client.New(client.Options{
		ServerURL: p.ServerURL,
		Logger:    &logger,
	})
	if err != nil {
		return err
	}

	store, err := storage.NewFileStore(p.OutputDir)
	if err != nil {
		return err
	}

	ctrl := studio.NewController(studio.Options{
		Backend:  api,
		Store:    store,
		Interval: time.Duration(p.PollInterval),
		Logger:   &logger,
	})

	quiet := app.IsTerminal != nil && !app.IsTerminal()
	logger.Debug().Str("server", p.ServerURL).Str("output", store.BasePath()).Bool("quiet", quiet).Msg("studio starting")

	err = repl.New(&repl.Config{
		In:           app.In,
		Out:          app.Out,
		Err:          app.Err,
		Controller:   ctrl,
		DefaultScale: p.DefaultScale,
		Quiet:        quiet,
	}).Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Debug().Msg("studio interrupted")
		return nil
	}
	return err
}
