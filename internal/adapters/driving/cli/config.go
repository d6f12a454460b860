package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matcha-labs/matcha-cli/internal/adapters/driven/ai"
	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application configuration",
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Writes a config file with default settings to edit by hand.
Existing configuration is left untouched.`,
	RunE: runConfigInit,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configured AI providers",
	Long:  `Creates the configured embedding and LLM services and pings them.`,
	RunE:  runConfigCheck,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cmd.Println(settingsStore.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	redacted := appSettings
	if redacted.Embedding.APIKey != "" {
		redacted.Embedding.APIKey = "****"
	}
	if redacted.LLM.APIKey != "" {
		redacted.LLM.APIKey = "****"
	}
	return printJSON(cmd, redacted)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if settingsStore.Exists() {
		cmd.Printf("Config file already exists at %s\n", settingsStore.Path())
		return nil
	}
	if err := settingsStore.Save(domain.DefaultAppSettings()); err != nil {
		return err
	}
	cmd.Printf("Wrote default config to %s\n", settingsStore.Path())
	cmd.Println("Edit it to configure your embedding and LLM providers.")
	return nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	if !appSettings.Embedding.IsConfigured() {
		cmd.Println("Embedding: not configured")
	} else if err := ai.ValidateEmbeddingConfig(&appSettings.Embedding); err != nil {
		return fmt.Errorf("embedding provider check failed: %w", err)
	} else {
		cmd.Printf("Embedding: %s/%s OK\n", appSettings.Embedding.Provider, appSettings.Embedding.Model)
	}

	if !appSettings.LLM.IsConfigured() {
		cmd.Println("LLM: not configured (review and classification disabled)")
	} else if err := ai.ValidateLLMConfig(&appSettings.LLM); err != nil {
		return fmt.Errorf("LLM provider check failed: %w", err)
	} else {
		cmd.Printf("LLM: %s/%s OK\n", appSettings.LLM.Provider, appSettings.LLM.Model)
	}
	return nil
}
