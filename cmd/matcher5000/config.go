package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jrsherlock/contacts-matcher5000/pkg/contactsmatcher"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the settings file",
	}

	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configShowCmd())

	return cmd
}

func configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the current defaults",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := cfgFile
			if path == "" {
				path = "matcher5000.yaml"
			}
			if err := viper.SafeWriteConfigAs(path); err != nil {
				return fmt.Errorf("writing settings: %w", err)
			}
			fmt.Println(successStyle.Render("wrote " + path))
			return nil
		},
	}
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildConfig(cmd, nil)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			fmt.Printf("threshold  %.2f\n", cfg.Threshold)
			fmt.Printf("metric     %s\n", cfg.Metric)
			for _, field := range contactsmatcher.Fields() {
				if weight, ok := cfg.FieldWeights[field]; ok {
					fmt.Printf("weight     %s = %.2f\n", field, weight)
				}
			}
			if used := viper.ConfigFileUsed(); used != "" {
				fmt.Println(subtleStyle.Render("settings file: " + used))
			}
			return nil
		},
	}
}
