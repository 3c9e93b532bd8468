// Package cmd implements the floof command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/zjrosen/floof"
	"github.com/zjrosen/floof/internal/config"
	"github.com/zjrosen/floof/internal/log"
)

var version = "dev"

var (
	cfgFile   string
	debugFlag bool
	traceFlag bool
	seedFlag  uint64

	cfg config.Config

	shutdownTracing func(context.Context) error
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CBA6F7"))
	hintStyle    = lipgloss.NewStyle().Faint(true)
)

// player is the part of a playback context the commands use.
type player interface {
	PlayContext(ctx context.Context, name string) error
	PlayRandomContext(ctx context.Context) error
	Shutdown() error
}

// newPlayer opens a playback context. Tests replace it to avoid touching the
// audio device.
var newPlayer = func(opts ...floof.Option) (player, error) {
	ctx, err := floof.Init(opts...)
	if err != nil {
		return nil, err
	}
	return ctx, nil
}

var rootCmd = &cobra.Command{
	Use:   "floof",
	Short: "Play the sound clips baked into this binary",
	Long: `floof plays short sound clips that were embedded at build time.

Run without arguments to list the sounds and hear a random one.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runRoot,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default "+config.DefaultConfigPath+")")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "print playback spans to stderr")
	rootCmd.PersistentFlags().Uint64Var(&seedFlag, "seed", 0, "seed for random sound selection")

	// Finalizers run even when RunE fails, unlike PersistentPostRunE.
	cobra.OnFinalize(flushTracing)
}

func setup(cmd *cobra.Command, args []string) error {
	v := viper.New()
	config.SetDefaults(v)
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".floof")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.Log.Level
	if debugFlag {
		level = "debug"
	}
	if err := log.SetConsoleOutput(cmd.ErrOrStderr(), level); err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}

	if traceFlag {
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(cmd.ErrOrStderr()),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("creating trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		otel.SetTracerProvider(tp)
		shutdownTracing = tp.Shutdown
	}
	return nil
}

// flushTracing shuts down the provider installed by --trace, if any.
func flushTracing() {
	if shutdownTracing == nil {
		return
	}
	shutdown := shutdownTracing
	shutdownTracing = nil
	if err := shutdown(context.Background()); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to flush traces", err)
	}
}

// playbackOptions maps the loaded config and flags onto floof options.
func playbackOptions(cmd *cobra.Command) []floof.Option {
	opts := []floof.Option{
		floof.WithSampleRate(cfg.Audio.SampleRate),
		floof.WithBufferSize(cfg.Audio.BufferSize),
		floof.WithResampleQuality(cfg.Audio.ResampleQuality),
		floof.WithDecodeCache(cfg.Audio.DecodeCacheTTL),
	}
	if cmd.Flags().Changed("seed") {
		opts = append(opts, floof.WithSeed(seedFlag))
	}
	return opts
}

func runRoot(cmd *cobra.Command, args []string) error {
	p, err := newPlayer(playbackOptions(cmd)...)
	if err != nil {
		return err
	}
	defer func() { _ = p.Shutdown() }()

	out := cmd.OutOrStdout()
	printSounds(cmd)

	if floof.SoundCount() == 0 {
		_, _ = fmt.Fprintln(out, hintStyle.Render("No sounds embedded. Add .wav, .flac, .ogg or .mp3 files to internal/sound/sounds and rebuild."))
		return nil
	}

	_, _ = fmt.Fprintln(out, "Playing a random sound...")
	if err := p.PlayRandomContext(cmd.Context()); err != nil {
		// A failed play is reported, not fatal.
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Playback failed: %v\n", err)
		return nil
	}
	return waitForEnter(cmd, 0)
}
