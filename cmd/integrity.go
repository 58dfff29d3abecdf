package cmd

import (
	"context"
	"fmt"
	"os"

	"inventory-tracker/core/config"
	"inventory-tracker/core/database"
	"inventory-tracker/core/logger"
	"inventory-tracker/core/storage"
	"inventory-tracker/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the products table and the export bucket",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			cmd.Help()
			return
		}
		runIntegrityChecks(cmd.Context(), true, true)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the products table schema",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), true, false)
	},
}

// storageCmd represents the integrity storage command
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the export bucket",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(schemaCmd, storageCmd)

	storageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the missing bucket and folders")
}

func runIntegrityChecks(ctx context.Context, runSchema, runStorage bool) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Connect to Database (Optional)
	var db *gorm.DB
	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		db = conn
	}

	// Create Storage Client (Optional)
	var client storage.Client
	if c, err := storage.NewClient(cfg.Storage); err != nil {
		logg.Warn("Optional storage client failed", zap.Error(err))
	} else {
		client = c
	}

	svc := integrity.NewService(db, client, cfg.Storage, logg)

	if runSchema {
		logg.Info("Checking products schema...")
		report, err := svc.CheckSchema()
		if err != nil {
			logg.Error("Schema check failed", zap.Error(err))
		} else if report.Matched {
			logg.Info("Schema matches the document model.", zap.String("table", report.Table))
		} else {
			logg.Warn("Schema mismatches found",
				zap.String("table", report.Table),
				zap.Strings("missing_columns", report.MissingColumns),
				zap.Strings("type_mismatches", report.TypeMismatches),
				zap.Strings("missing_indexes", report.MissingIndexes),
			)
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
			if len(report.MissingColumns) > 0 || len(report.MissingIndexes) > 0 {
				logg.Info("Run the server once to migrate the products table.")
			}
		}
	}

	if runStorage {
		logg.Info("Checking export bucket...", zap.String("bucket", cfg.Storage.Bucket))
		report, err := svc.CheckStorage(ctx)
		if err != nil {
			logg.Fatal("Storage check failed", zap.Error(err))
		}

		if report.OK() {
			logg.Info("Export bucket is intact.")
			return
		}

		logg.Warn("Export bucket problems detected",
			zap.Bool("bucket_exists", report.BucketExists),
			zap.Strings("missing", report.Missing))

		if fixFlag {
			logg.Info("Fixing export bucket...")
			if err := svc.FixStorage(ctx, report); err != nil {
				logg.Fatal("Failed to fix export bucket", zap.Error(err))
			}
			logg.Info("Export bucket fixed successfully.")
		} else {
			logg.Info("Run 'integrity storage --fix' to create what is missing.")
		}
	}
}
