package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	apppkg "github.com/kk-code-lab/carto/internal/app"
	"github.com/kk-code-lab/carto/internal/config"
	"github.com/kk-code-lab/carto/internal/logging"
	"github.com/kk-code-lab/carto/internal/shellsetup"
)

var (
	version = "dev"
	commit  = ""
)

type rootOptions struct {
	configPath   string
	cwd          string
	logLevel     string
	printLastDir bool
}

func main() {
	// Set UTF-8 as fallback encoding so non-ASCII names render on terminals
	// that report a legacy charset.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "carto",
		Short:        "Keyboard-driven terminal file browser",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Version:      buildVersion(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file path (default: $CARTO_CONFIG_DIR or the user config dir)")
	flags.StringVar(&opts.cwd, "cwd", "", "directory to start in (default: current directory)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&opts.printLastDir, "print-last-dir", false, "print the last directory to stdout when quitting with Q")

	cmd.AddCommand(newSetupCmd())
	return cmd
}

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "setup [shell]",
		Short:     "Print the shell function that cds into the last directory on exit",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "pwsh", "tcsh", "cmd"},
		RunE: func(cmd *cobra.Command, args []string) error {
			override := ""
			if len(args) == 1 {
				override = args[0]
			}
			_, err := shellsetup.Write(cmd.OutOrStdout(), override, shellsetup.Config{})
			return err
		},
	}
}

func run(cmd *cobra.Command, opts *rootOptions) error {
	cfgPath, err := resolveConfigPath(opts.configPath)
	if err != nil {
		return err
	}
	cfg, cfgErr := config.Load(cfgPath)

	logCfg := cfg.Logging
	if lvl := strings.TrimSpace(opts.logLevel); lvl != "" {
		logCfg.Level = &lvl
	}
	closeLog, err := logging.Init(logCfg, buildVersion())
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() {
		_ = closeLog()
	}()
	if cfgErr != nil {
		slog.Warn("config unreadable, using defaults", slog.String("path", cfgPath), slog.Any("err", cfgErr))
	}

	app, err := apppkg.NewApplication(apppkg.Options{
		Cwd:        opts.cwd,
		ConfigPath: cfgPath,
		Config:     cfg,
		ConfigErr:  cfgErr,
	})
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()

	if path := app.GetCurrentPath(); path != "" && opts.printLastDir {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

func resolveConfigPath(flagValue string) (string, error) {
	if p := strings.TrimSpace(flagValue); p != "" {
		return filepath.Abs(p)
	}
	return config.DefaultPath()
}

func buildVersion() string {
	if commit != "" {
		return version + " (" + commit + ")"
	}
	return version
}
