package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"recipecard/internal/config"
	"recipecard/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "recipecard",
	Short: "recipecard - turn photos of recipe cards into structured recipes",
	Long: `recipecard reads a photographed recipe card and reconstructs its
title, servings, ingredient table and instructions.

Text is recognized by one of three OCR engines (tesseract, vision,
documentai). The layout of the card is rebuilt from the positions of the
recognized text lines and from ruled lines found in the image.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("engine", "", "OCR engine: tesseract, vision or documentai (default: $RECIPE_OCR_ENGINE)")
	rootCmd.PersistentFlags().String("config", "", "TOML file with layout heuristics (default: $RECIPE_HEURISTICS_FILE)")
	rootCmd.PersistentFlags().Int("timeout", 0, "OCR timeout in seconds (default: $RECIPE_OCR_TIMEOUT or 30)")
}

// loadConfig reads the environment configuration and applies the global
// command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if engine, _ := cmd.Flags().GetString("engine"); engine != "" {
		cfg.OCREngine = engine
	}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := cfg.LoadHeuristics(path); err != nil {
			return nil, err
		}
	}
	if secs, _ := cmd.Flags().GetInt("timeout"); secs > 0 {
		cfg.OCRTimeout = time.Duration(secs) * time.Second
	}
	return cfg, nil
}
