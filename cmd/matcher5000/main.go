package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jrsherlock/contacts-matcher5000/pkg/contactsmatcher"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "matcher5000",
		Short: "Fuzzy company matching between contact lists",
		Long: `matcher5000 reconciles contact lists: it matches every record in your
source lists against a master company list by fuzzy company-name
similarity and reports the overlap.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// errUsage marks mistakes in flags or arguments so main exits 1
	// instead of 2.
	errUsage = errors.New("usage error")
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default: ./matcher5000.yaml, then $HOME/.config/matcher5000/)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	rootCmd.AddCommand(matchCmd())
	rootCmd.AddCommand(columnsCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(exitCode(err))
	}
}

// exitCode maps failures to shell conventions: 1 for usage and
// configuration mistakes, 2 for runtime failures.
func exitCode(err error) int {
	if errors.Is(err, errUsage) || errors.Is(err, contactsmatcher.ErrInvalidConfig) {
		return 1
	}
	return 2
}

func initConfig(_ *cobra.Command, _ []string) error {
	viper.SetDefault("threshold", contactsmatcher.DefaultThreshold)
	viper.SetDefault("metric", string(contactsmatcher.DefaultMetric))
	viper.SetDefault("weights", map[string]float64{"name": 1.0})

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(fmt.Sprintf("%s/.config/matcher5000", home))
		}
		viper.SetConfigName("matcher5000")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MATCHER5000")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading settings: %w", err)
		}
	}

	return setupLogging()
}

func setupLogging() error {
	var level slog.Level
	switch viper.GetString("logging.level") {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("%w: invalid log level %q", errUsage, viper.GetString("logging.level"))
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch viper.GetString("logging.format") {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("%w: invalid log format %q", errUsage, viper.GetString("logging.format"))
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("matcher5000", version)
		},
	}
}
