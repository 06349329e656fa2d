package main

import (
	"fmt"

	"github.com/hearthledger/budget-backend/config"
	"github.com/hearthledger/budget-backend/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Validate and print the server configuration",
		Long: "Loads configuration from the environment exactly as the server does, validates it\n" +
			"and prints the effective values as YAML. Secrets are masked unless --show-secrets is set.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if !showSecrets {
				maskSecrets(cfg)
			}

			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print secrets in clear text")
	return cmd
}

func maskSecrets(cfg *config.Config) {
	cfg.Server.JwtSecretKey = logger.MaskSensitiveString(cfg.Server.JwtSecretKey, 3, 0)
	cfg.Database.Password = logger.MaskSensitiveString(cfg.Database.Password, 0, 0)
	cfg.Redis.Password = logger.MaskSensitiveString(cfg.Redis.Password, 0, 0)
	cfg.Email.ResendAPIKey = logger.MaskSensitiveString(cfg.Email.ResendAPIKey, 3, 0)
}
