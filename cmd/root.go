/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inkwell-cms/apiserver/config"
	"github.com/inkwell-cms/apiserver/internal/logging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Inkwell CMS API server",
	Long: `Inkwell is a small content management API: users, categories,
articles and media uploads behind JWT authentication.

Configuration is read from INKWELL_* environment variables.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadRuntime reads the configuration and builds the process logger.
func loadRuntime() (config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
		Dev:   cfg.IsDevelopment(),
	})
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}
