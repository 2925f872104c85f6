package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	traceLevel int
)

var rootCmd = &cobra.Command{
	Use:   "ctsim",
	Short: "Batch CT phantom, forward-projection, and reconstruction driver",
	Long: `ctsim drives the reconstruction core from the command line:
rasterize a phantom to an image, forward-project it to a sinogram,
reconstruct an image back from a sinogram, or report comparative
statistics between two images.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		switch {
		case traceLevel >= 2:
			level = slog.LevelDebug
		case traceLevel == 1:
			level = slog.LevelInfo
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.ctsim.yaml)")
	rootCmd.PersistentFlags().IntVar(&traceLevel, "trace", 0, "trace verbosity (0=warnings only, 1=info, 2=debug)")
	_ = viper.BindPFlag("trace", rootCmd.PersistentFlags().Lookup("trace"))

	rootCmd.AddCommand(rasterizeCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(reconstructCmd)
	rootCmd.AddCommand(statsCmd)
}

// interruptContext returns a context cancelled on SIGINT/SIGTERM, so
// that a long-running rasterize/project/reconstruct invocation honors
// the cooperative cancellation its core operation checks per view, and
// still writes out whatever partial result it had accumulated.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".ctsim")
		}
	}
	viper.SetEnvPrefix("ctsim")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // absence of a config file is not an error; flags/env still apply
}
