package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose   bool
	historyDB string

	rootCmd = &cobra.Command{
		Use:           "tracknote",
		Short:         "Link task mentions in markdown notes to tracker issues",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&historyDB, "history-db", "./tracknote.db", "path to the created-issue history database")
	rootCmd.AddCommand(watchCmd, processCmd, historyCmd)
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
