// cmd/billingctl/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opsledger/billingd/internal/auth"
	"github.com/opsledger/billingd/internal/config"
	"github.com/opsledger/billingd/internal/model"
	"github.com/opsledger/billingd/internal/repository"
	"github.com/opsledger/billingd/internal/service"
)

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	createOperatorCmd.Flags().String("role", "admin", "Operator role (admin or viewer)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createOperatorCmd)
	rootCmd.AddCommand(setTagsCmd)
	rootCmd.AddCommand(setDisplayNameCmd)
}

var rootCmd = &cobra.Command{
	Use:   "billingctl",
	Short: "billingctl manages the billing service database",
	Long:  `billingctl runs schema migrations and performs operator and organization maintenance.`,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  `Create or update the database schema for all billing tables.`,
	Run: func(cmd *cobra.Command, args []string) {
		db := openDatabase()

		err := db.AutoMigrate(
			&model.Organization{},
			&model.UsageReport{},
			&model.Operator{},
			&model.WebhookEvent{},
		)
		if err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}

		fmt.Println("Schema migrated successfully")
	},
}

var createOperatorCmd = &cobra.Command{
	Use:   "create-operator [email] [name] [password]",
	Short: "Create an operator account",
	Long:  `Create a console operator. Role defaults to admin; pass --role viewer for read-only access.`,
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		role, _ := cmd.Flags().GetString("role")

		db := openDatabase()
		operatorService := service.NewOperatorService(
			repository.NewOperatorRepository(db),
			auth.NewPasswordHasher(),
			auth.NewTokenManager("", time.Hour),
		)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		operator, err := operatorService.CreateOperator(ctx, service.CreateOperatorInput{
			Email:    args[0],
			Name:     args[1],
			Password: args[2],
			Role:     role,
		})
		if err != nil {
			log.Fatalf("Failed to create operator: %v", err)
		}

		fmt.Printf("Created operator %s (%s) with role %s\n", operator.Email, operator.ID, operator.Role)
	},
}

var setTagsCmd = &cobra.Command{
	Use:   "set-tags [organization-id] [tags]",
	Short: "Replace an organization's tags",
	Long:  `Replace the tag list of an organization. Tags are comma-separated; an empty string clears them.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatalf("Invalid organization ID: %v", err)
		}

		var tags []string
		if args[1] != "" {
			tags = strings.Split(args[1], ",")
		}

		db := openDatabase()
		orgService := service.NewOrganizationService(
			repository.NewOrganizationRepository(db),
			repository.NewUsageReportRepository(db),
			nil,
			nil,
		)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		org, err := orgService.UpdateTags(ctx, id, tags)
		if err != nil {
			log.Fatalf("Failed to update tags: %v", err)
		}

		fmt.Printf("Organization %s tags set to %v\n", org.ID, org.Tags)
	},
}

var setDisplayNameCmd = &cobra.Command{
	Use:   "set-display-name [organization-id] [name]",
	Short: "Override an organization's display name",
	Long:  `Set the display name shown in the console. An empty string reverts to the reported name.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatalf("Invalid organization ID: %v", err)
		}

		db := openDatabase()
		orgService := service.NewOrganizationService(
			repository.NewOrganizationRepository(db),
			repository.NewUsageReportRepository(db),
			nil,
			nil,
		)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		org, err := orgService.UpdateDisplayName(ctx, id, args[1])
		if err != nil {
			log.Fatalf("Failed to update display name: %v", err)
		}

		if org.DisplayName != nil {
			fmt.Printf("Organization %s display name set to %q\n", org.ID, *org.DisplayName)
		} else {
			fmt.Printf("Organization %s display name cleared\n", org.ID)
		}
	},
}

func openDatabase() *gorm.DB {
	cfg := config.Load()

	logLevel := logger.Warn
	if verbose {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	return db
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
