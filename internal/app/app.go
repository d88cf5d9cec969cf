// Package app is the grna command line: a cobra command tree over the
// design engine, configured through internal/config.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"grna/internal/appcore"
	"grna/internal/config"
	"grna/internal/logging"
	"grna/internal/version"
)

// app carries per-invocation state through the command tree.
type app struct {
	stdout, stderr io.Writer

	v       *viper.Viper
	cfgFile string
	quiet   bool

	cfg     config.Config
	log     *slog.Logger
	started bool
	code    int
}

// RunContext executes argv and returns the process exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr, v: config.New(), log: logging.Discard()}
	root := a.rootCommand()
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		if !a.started {
			return appcore.ExitUsage
		}
		return appcore.ExitCode(err)
	}
	return a.code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "grna",
		Short: "Design and rank CRISPR guide RNAs",
		Long: `grna finds PAM sites in DNA sequences, extracts candidate guides,
scores their on-target efficiency, predicts off-target risk and ranks them.

Settings come from flags, GRNA_* environment variables (a local .env is
read first), an optional grna.yaml and built-in defaults, in that order.`,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetVersionTemplate("grna version {{.Version}}\n")
	root.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return appcore.Usage(fmt.Errorf("%w\nsee '%s --help'", err, c.CommandPath()))
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./grna.yaml if present)")
	pf.String("log-level", "info", "log level: debug | info | warn | error")
	pf.String("log-format", "text", "log format: text | json")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "only log errors")

	root.AddCommand(
		a.designCommand(),
		a.batchCommand(),
		a.scoreCommand(),
		a.offTargetCommand(),
		a.systemsCommand(),
		a.analyzeCommand(),
		a.revcompCommand(),
		a.generateCommand(),
		a.serveCommand(),
		a.versionCommand(),
	)
	return root
}

// setup binds the running command's flags, loads configuration and builds
// the logger. Errors here are usage errors.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = a.v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return bindErr
	}
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	cfg.Log.Quiet = a.quiet
	log, err := logging.New(a.stderr, cfg.Log)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	a.started = true
	a.log.Debug("config loaded", "system", cfg.System, "format", cfg.Output.Format)
	return nil
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(a.stdout, "grna version %s\n", version.Version)
			return err
		},
	}
}
