package main

import (
	"fmt"

	"foodbridge-api/internal/adapters/persistence/models"
	"foodbridge-api/internal/adapters/persistence/repositories"
	"foodbridge-api/internal/config"
	"foodbridge-api/internal/core/services"
	"foodbridge-api/internal/pkg/logger"
	"foodbridge-api/internal/pkg/password"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string

	rootCmd = &cobra.Command{
		Use:           "foodctl",
		Short:         "Operator tasks for the FoodBridge database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE:  runMigrate,
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Create the first administrator account",
		Long: `Creates an administrator unless one already exists.
A password is generated and printed when --admin-password is omitted.`,
		RunE: runSeed,
	}

	resetIntakeCmd = &cobra.Command{
		Use:   "reset-intake",
		Short: "Zero the daily intake load of every NGO",
		RunE:  runResetIntake,
	}
)

func init() {
	seedCmd.Flags().StringVar(&adminName, "admin-name", "Administrator", "display name of the administrator")
	seedCmd.Flags().StringVar(&adminEmail, "admin-email", "", "email of the administrator")
	seedCmd.Flags().StringVar(&adminPassword, "admin-password", "", "password of the administrator")
	_ = seedCmd.MarkFlagRequired("admin-email")

	rootCmd.AddCommand(migrateCmd, seedCmd, resetIntakeCmd)
}

// connect loads configuration and opens the database
func connect() (*gorm.DB, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.Must(cfg.AppMode)

	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return db, log, nil
}

func runMigrate(_ *cobra.Command, _ []string) error {
	db, log, err := connect()
	if err != nil {
		return err
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("✅ Database migration completed")
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	db, log, err := connect()
	if err != nil {
		return err
	}
	defer config.CloseDatabase()

	pass := adminPassword
	generated := pass == ""
	if generated {
		if pass, err = generatePassword(); err != nil {
			return err
		}
	}

	seeder := config.NewSeeder(repositories.NewStore(db), log)
	created, err := seeder.SeedAdmin(cmd.Context(), config.AdminSeed{
		Name:     adminName,
		Email:    adminEmail,
		Password: pass,
	})
	if err != nil {
		return err
	}
	if created && generated {
		fmt.Fprintf(cmd.OutOrStdout(), "admin password: %s\n", pass)
	}
	return nil
}

func runResetIntake(cmd *cobra.Command, _ []string) error {
	db, log, err := connect()
	if err != nil {
		return err
	}
	defer config.CloseDatabase()

	cron, err := services.NewCronService(repositories.NewStore(db), "@daily", log)
	if err != nil {
		return err
	}

	n, err := cron.ResetIntakeLoads(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "reset intake load for %d NGOs\n", n)
	return nil
}

// generatePassword draws random hex until it satisfies the password policy
func generatePassword() (string, error) {
	for {
		token, err := password.RandomToken(8)
		if err != nil {
			return "", err
		}
		if password.Validate(token) == nil {
			return token, nil
		}
	}
}
