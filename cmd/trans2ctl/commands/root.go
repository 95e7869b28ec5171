// Package commands implements the CLI commands for trans2ctl.
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/marmos91/smbtrans2/cmd/trans2ctl/cmdutil"
	"github.com/marmos91/smbtrans2/internal/adapter/smb/trans2"
	"github.com/marmos91/smbtrans2/internal/logger"
	"github.com/marmos91/smbtrans2/internal/telemetry"
	"github.com/marmos91/smbtrans2/pkg/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = NewRootCmd()

// NewRootCmd builds the command tree. Each call returns an independent tree
// with its own flag state.
func NewRootCmd() *cobra.Command {
	s := &cmdutil.Session{}

	cmd := &cobra.Command{
		Use:   "trans2ctl",
		Short: "SMB1 TRANSACTION2 request codec",
		Long: `trans2ctl encodes and decodes SMB1 TRANSACTION2 requests.

It computes the on-wire placement of the parameter and data sections,
builds complete request messages, and parses captured ones back into
their fields.

Use "trans2ctl [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupSession(cmd, s); err != nil {
				_ = s.Close(context.WithoutCancel(cmd.Context()))
				return err
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.DumpMetrics(cmd.ErrOrStderr())
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&s.Flags.ConfigPath, "config", "", "Config file (default $XDG_CONFIG_HOME/trans2ctl/config.yaml)")
	f.StringVarP(&s.Flags.Output, "output", "o", "", "Output format (table|json|yaml)")
	f.StringVar(&s.Flags.Strictness, "strictness", "", "Decode strictness (lenient|strict|canonical)")
	f.StringVar(&s.Flags.LogLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR)")
	f.Bool("no-color", false, "Disable colored output")
	f.BoolP("verbose", "v", false, "Enable debug logging")
	f.Bool("metrics", false, "Print codec metrics to stderr after the command")

	cmd.AddCommand(newEncodeCmd(s))
	cmd.AddCommand(newDecodeCmd(s))
	cmd.AddCommand(newLayoutCmd(s))
	cmd.AddCommand(newBenchCmd(s))
	cmd.AddCommand(newConfigCmd(s))
	cmd.AddCommand(versionCmd())

	cmd.CompletionOptions.DisableDefaultCmd = true
	closeAfterRun(cmd, s)

	return cmd
}

// closeAfterRun wraps every RunE in the tree so the session is closed even
// when the command fails and PersistentPostRunE is skipped.
func closeAfterRun(c *cobra.Command, s *cmdutil.Session) {
	for _, sub := range c.Commands() {
		closeAfterRun(sub, s)
	}
	run := c.RunE
	if run == nil {
		return
	}
	c.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		telemetry.RecordError(cmd.Context(), err)
		// Detached so a cancelled command context still flushes.
		if cerr := s.Close(context.WithoutCancel(cmd.Context())); cerr != nil {
			logger.Warn("telemetry shutdown failed", logger.Err(cerr))
		}
		return err
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// setupSession loads configuration, applies flag overrides and builds the
// codec the subcommand will use.
func setupSession(cmd *cobra.Command, s *cmdutil.Session) error {
	s.Flags.NoColor, _ = cmd.Flags().GetBool("no-color")
	s.Flags.Verbose, _ = cmd.Flags().GetBool("verbose")
	s.Flags.Metrics, _ = cmd.Flags().GetBool("metrics")

	cfg, err := config.Load(s.Flags.ConfigPath)
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(cfg, &s.Flags); err != nil {
		return err
	}
	s.Config = cfg

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	opts := trans2.Options{Strictness: cfg.Codec.Strictness}
	s.Registry = nil
	if cfg.Metrics.Enabled {
		s.Registry = prometheus.NewRegistry()
		opts.Metrics = trans2.NewMetrics(s.Registry)
	}
	s.Codec = trans2.NewCodec(opts)

	ctx, err := startTelemetry(cmd, s)
	if err != nil {
		return err
	}

	// Log lines share the trace ID when a trace is being recorded.
	traceID := telemetry.TraceID(ctx)
	if traceID == "" {
		traceID = uuid.New().String()
	}
	lc := logger.NewLogContext(traceID, cmd.Name())
	cmd.SetContext(logger.WithContext(ctx, lc))

	logger.DebugCtx(cmd.Context(), "session ready",
		logger.Strictness(cfg.Codec.Strictness),
		"output", cfg.Output.Format,
		"metrics", cfg.Metrics.Enabled)
	return nil
}

// startTelemetry installs the tracer and profiler and opens the command
// span. Everything it starts is registered for shutdown on the session.
func startTelemetry(cmd *cobra.Command, s *cmdutil.Session) (context.Context, error) {
	tc := s.Config.Telemetry
	ctx := cmd.Context()

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        tc.Enabled,
		ServiceName:    "trans2ctl",
		ServiceVersion: Version,
		Endpoint:       tc.Endpoint,
		Insecure:       tc.Insecure,
		SampleRate:     tc.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	s.OnClose(shutdown)

	stopProfiling, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        tc.Profiling.Enabled,
		ServiceName:    "trans2ctl",
		ServiceVersion: Version,
		Endpoint:       tc.Profiling.Endpoint,
		Command:        cmd.Name(),
		ProfileTypes:   tc.Profiling.ProfileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize profiling: %w", err)
	}
	s.OnClose(func(context.Context) error { return stopProfiling() })

	ctx, span := telemetry.StartCommandSpan(ctx, cmd.Name())
	s.OnClose(func(context.Context) error {
		span.End()
		return nil
	})
	return ctx, nil
}

// applyFlagOverrides lets explicit CLI flags win over file and environment.
func applyFlagOverrides(cfg *config.Config, flags *cmdutil.GlobalFlags) error {
	if flags.Output != "" {
		cfg.Output.Format = strings.ToLower(flags.Output)
	}
	if flags.Strictness != "" {
		st, err := trans2.ParseStrictness(flags.Strictness)
		if err != nil {
			return err
		}
		cfg.Codec.Strictness = st
	}
	if flags.LogLevel != "" {
		cfg.Logging.Level = strings.ToUpper(flags.LogLevel)
	}
	if flags.Verbose {
		cfg.Logging.Level = "DEBUG"
	}
	if flags.Metrics {
		cfg.Metrics.Enabled = true
	}
	return config.Validate(cfg)
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}
