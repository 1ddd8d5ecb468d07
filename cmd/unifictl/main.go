// Package main provides the command-line interface for unifictl
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"unifictl/internal/config"
	"unifictl/internal/logging"
	"unifictl/internal/reconcile"
	"unifictl/internal/unifi"
	"unifictl/internal/validate"
)

// CLI flags
var (
	configDir   string
	policyFlag  string
	profileFlag string
	verbose     bool
	logDir      string

	dryRun        bool
	checkMode     bool
	migrateIntent bool
	ackVLAN1Risks bool
	force         bool
	assumeYes     bool
)

func main() {
	rootCmd := createRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error onto the command exit-code contract:
// 0 success, 1 missing input or declined/failed pre-checks, 2 validation
// failure, 3 anything unexpected.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if validate.IsValidationFailure(err) {
		return 2
	}
	var backupErr *reconcile.BackupError
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, reconcile.ErrConfirmationDeclined) ||
		errors.As(err, &backupErr) {
		return 1
	}
	return 3
}

func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "unifictl",
		Short: "Declarative VLAN reconciliation for a UniFi-style controller",
		Long: `unifictl: declarative network configuration for a single
gateway/switch/controller topology.

The declared VLAN set (config/vlans.yaml) and hardware inventory
(config/hardware.yaml) are validated against hardware-specific safety
constraints before any mutating controller API call is made.

Examples:
  # Validate configuration without network access
  unifictl validate

  # Show what an apply would change
  unifictl apply --dry-run

  # Reconcile the controller to the declared configuration
  unifictl apply

  # Export a controller backup
  unifictl backup`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", "config", "Directory holding vlans.yaml and hardware.yaml")
	rootCmd.PersistentFlags().StringVar(&policyFlag, "policy", "", "Safety policy version (legacy, gated, strict); overrides the settings block")
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "Gateway hardware profile (usg3p, uxg-pro, udm-se, udm-pro)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "logs", "Directory for run logs")

	rootCmd.AddCommand(createValidateCommand())
	rootCmd.AddCommand(createStatusCommand())
	rootCmd.AddCommand(createBackupCommand())
	rootCmd.AddCommand(createRollbackCommand())
	rootCmd.AddCommand(createApplyCommand())
	rootCmd.AddCommand(createGenerateConfigCommand())

	return rootCmd
}

func createValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Run all validators without network access",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.NewFileLogger(logDir, verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Close()

			network, hardware, err := loadConfigs()
			if err != nil {
				return err
			}

			policy, profile, err := resolveSettings(network)
			if err != nil {
				return err
			}

			validator := validate.NewService(validate.Options{
				Policy:          policy,
				HardwareProfile: profile,
				Logger:          logger,
			})
			if err := validator.ValidateAll(network, hardware); err != nil {
				return err
			}

			logger.Info(fmt.Sprintf("✅ Validation OK: %d VLAN(s), uplink trunk, controller migration, inventory",
				len(network.VLANs)))
			return nil
		},
	}
}

func createStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Authenticate and show controller self-info",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.NewFileLogger(logDir, verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Close()

			client := unifi.NewClient(config.ControllerFromEnv(), logger)
			if err := client.Login(cmd.Context()); err != nil {
				return err
			}

			info, err := client.SelfInfo(cmd.Context())
			if err != nil {
				return err
			}

			var pretty map[string]interface{}
			if err := json.Unmarshal(info, &pretty); err == nil {
				formatted, _ := json.MarshalIndent(pretty, "", "  ")
				fmt.Println(string(formatted))
			} else {
				fmt.Println(string(info))
			}
			return nil
		},
	}
}

func createBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Authenticate and export a controller backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.NewFileLogger(logDir, verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Close()

			client := unifi.NewClient(config.ControllerFromEnv(), logger)
			if err := client.Login(cmd.Context()); err != nil {
				return err
			}

			content, err := client.ExportBackup(cmd.Context())
			if err != nil {
				return err
			}

			if err := os.MkdirAll("backups", 0755); err != nil {
				return fmt.Errorf("failed to create backup directory: %w", err)
			}
			path := filepath.Join("backups", "controller-backup.unf")
			if err := os.WriteFile(path, content, 0600); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}

			logger.Info(fmt.Sprintf("💾 Backup saved: %s", path))
			return nil
		},
	}
}

func createRollbackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Report the last persisted apply state",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, found := reconcile.LastStatePath(stateDir())
			if !found {
				return fmt.Errorf("no state file found for rollback: %w", os.ErrNotExist)
			}
			fmt.Printf("Would rollback using %s\n", path)
			return nil
		},
	}
}

func createApplyCommand() *cobra.Command {
	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile the controller to the declared configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.NewFileLogger(logDir, verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Close()

			network, hardware, err := loadConfigs()
			if err != nil {
				return err
			}

			policy, profile, err := resolveSettings(network)
			if err != nil {
				return err
			}

			client := unifi.NewClient(config.ControllerFromEnv(), logger)
			service := reconcile.NewService(client, reconcile.Options{
				DryRun:          dryRun,
				CheckMode:       checkMode,
				Migrate:         migrateIntent,
				AckVLAN1Risks:   ackVLAN1Risks,
				Force:           force,
				AssumeYes:       assumeYes,
				Policy:          policy,
				HardwareProfile: profile,
				StateDir:        stateDir(),
				BackupDir:       "backups",
				Logger:          logger,
			})

			_, err = service.Reconcile(cmd.Context(), network, hardware)
			return err
		},
	}

	applyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and diff only; never touch the controller")
	applyCmd.Flags().BoolVar(&checkMode, "check-mode", false, "Validate only; no network access at all")
	applyCmd.Flags().BoolVar(&migrateIntent, "migrate", false, "Signal controller-migration intent (required to touch the default VLAN)")
	applyCmd.Flags().BoolVar(&ackVLAN1Risks, "i-understand-vlan1-risks", false, "Acknowledge that editing the default VLAN can cut off device management")
	applyCmd.Flags().BoolVar(&force, "force", false, "Continue even if the pre-apply backup fails")
	applyCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the interactive confirmation")

	return applyCmd
}

func createGenerateConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-config",
		Short: "Write sample vlans.yaml and hardware.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(configDir, 0755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			vlansPath := filepath.Join(configDir, "vlans.yaml")
			hardwarePath := filepath.Join(configDir, "hardware.yaml")
			if err := config.GenerateSampleConfigs(vlansPath, hardwarePath); err != nil {
				return err
			}
			fmt.Printf("📋 Sample configuration written to %s and %s\n", vlansPath, hardwarePath)
			return nil
		},
	}
}

// loadConfigs loads both configuration documents from the config directory
func loadConfigs() (*config.NetworkConf, *config.HardwareConf, error) {
	network, err := config.LoadNetworkConf(filepath.Join(configDir, "vlans.yaml"))
	if err != nil {
		return nil, nil, err
	}
	hardware, err := config.LoadHardwareConf(filepath.Join(configDir, "hardware.yaml"))
	if err != nil {
		return nil, nil, err
	}
	return network, hardware, nil
}

// resolveSettings applies CLI precedence over the settings block and
// parses the policy
func resolveSettings(network *config.NetworkConf) (validate.Policy, string, error) {
	settings := network.Settings.ApplyFlagOverrides(policyFlag, profileFlag)
	policy, err := validate.ParsePolicy(settings.Policy)
	if err != nil {
		return "", "", err
	}
	return policy, settings.HardwareProfile, nil
}

func stateDir() string {
	return filepath.Join(configDir, ".state")
}
