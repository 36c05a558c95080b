// Package cli wires the cobra command tree: the root command starts the
// interactive TUI, subcommands cover scripted listing, a prompt-driven
// booking flow and a local sample backend.
package cli

import (
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bookmymovie-cli/config"
	"bookmymovie-cli/logging"
	"bookmymovie-cli/service"
	"bookmymovie-cli/tui"
)

const appName = "bookmymovie"

// set through -ldflags at release time
var (
	version = "dev"
	commit  = "none"
)

type app struct {
	cfg    config.Config
	log    *zap.Logger
	client *service.Client
}

func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          appName,
		Short:        "BookMyMovie terminal client",
		Long:         `Browse movies, pick a show and book your seats without leaving the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a.log.Info("starting tui", zap.String("api", a.cfg.APIBaseURL))
			_, err := tea.NewProgram(tui.New(a.client), tea.WithAltScreen()).Run()
			return err
		},
	}

	root.PersistentFlags().String("api", "", "API base URL, overrides config and BMM_API_BASE_URL")
	root.PersistentFlags().Bool("debug", false, "log at debug level")

	root.AddCommand(
		newMoviesCmd(a),
		newTheatersCmd(a),
		newShowsCmd(a),
		newBookCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if api, _ := cmd.Flags().GetString("api"); api != "" {
		cfg.APIBaseURL = api
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}

	log, err := logging.New(cfg.LogFile, cfg.Debug, false)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}

	a.cfg = cfg
	a.log = log
	a.client = service.NewClient(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.APIBaseURL)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			out := fmt.Sprintf("%s %s", appName, version)
			if commit != "none" && commit != "" {
				out += fmt.Sprintf(" (%s)", commit)
			}
			fmt.Println(out)
		},
	}
}
