package cmd

import (
	"context"
	"fmt"
	"os"

	"inventory-tracker/core/reconcile"
	"inventory-tracker/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportOwner  string
	exportStatus string
	exportSearch string
	exportOut    string
	exportBucket bool
	exportKeep   int
	exportKey    string
)

// exportCmd writes an owner's inventory as CSV to a file, stdout or the bucket.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an owner's inventory as CSV",
	Long: `Exports the filtered inventory of one owner as CSV.

Writes to stdout by default, to a file with --out, or uploads a timestamped
snapshot to the configured storage bucket with --bucket. Uploading prunes the
owner's older snapshots down to --keep (storage.keep_exports when unset).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOwner == "" {
			return fmt.Errorf("--owner is required")
		}
		ctx := context.Background()

		env, err := setup()
		if err != nil {
			return err
		}
		defer env.Close()

		data, err := env.inventory.Export(ctx, exportOwner, reconcile.Query{Search: exportSearch, Status: exportStatus})
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}

		switch {
		case exportBucket:
			archive, err := openArchive(env)
			if err != nil {
				return err
			}
			if err := archive.Ensure(ctx); err != nil {
				return err
			}
			key, err := archive.Put(ctx, exportOwner, data)
			if err != nil {
				return err
			}
			env.logger.Info("Export uploaded", zap.String("bucket", archive.Bucket()), zap.String("key", key))

			keep := env.cfg.Storage.KeepExports
			if cmd.Flags().Changed("keep") {
				keep = exportKeep
			}
			removed, err := archive.Prune(ctx, exportOwner, keep)
			if err != nil {
				env.logger.Warn("Failed to prune old exports", zap.Error(err))
			} else if len(removed) > 0 {
				env.logger.Info("Pruned old exports", zap.Int("count", len(removed)))
			}
		case exportOut != "":
			return writeExport(env, exportOut, data)
		default:
			_, err = os.Stdout.Write(data)
			return err
		}
		return nil
	},
}

var exportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List an owner's stored CSV snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOwner == "" {
			return fmt.Errorf("--owner is required")
		}
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.Close()

		archive, err := openArchive(env)
		if err != nil {
			return err
		}
		exports, err := archive.List(context.Background(), exportOwner)
		if err != nil {
			return err
		}

		env.logger.Info("Stored exports", zap.String("owner", exportOwner), zap.Int("count", len(exports)))
		for _, e := range exports {
			env.logger.Info("Export",
				zap.String("key", e.Key),
				zap.Int64("size", e.Size),
				zap.Time("modified", e.LastModified),
			)
		}
		return nil
	},
}

var exportFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a stored CSV snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportKey == "" {
			return fmt.Errorf("--key is required")
		}
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.Close()

		archive, err := openArchive(env)
		if err != nil {
			return err
		}
		data, err := archive.Fetch(context.Background(), exportKey)
		if err != nil {
			return err
		}
		if exportOut != "" {
			return writeExport(env, exportOut, data)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func openArchive(env *environment) (*storage.Archive, error) {
	client, err := storage.NewClient(env.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return storage.NewArchive(client, env.cfg.Storage), nil
}

func writeExport(env *environment, file string, data []byte) error {
	if err := os.WriteFile(file, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	env.logger.Info("Export saved", zap.String("file", file), zap.Int("bytes", len(data)))
	return nil
}

func init() {
	exportCmd.PersistentFlags().StringVar(&exportOwner, "owner", "", "Owner id")
	exportCmd.PersistentFlags().StringVar(&exportOut, "out", "", "Write to this file instead of stdout")
	exportCmd.Flags().StringVar(&exportStatus, "status", reconcile.StatusAll, "Status filter")
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "Name filter")
	exportCmd.Flags().BoolVar(&exportBucket, "bucket", false, "Upload to the storage bucket")
	exportCmd.Flags().IntVar(&exportKeep, "keep", 0, "Snapshots to keep per owner after upload (0 keeps all)")
	exportFetchCmd.Flags().StringVar(&exportKey, "key", "", "Object key as shown by export list")

	exportCmd.AddCommand(exportListCmd, exportFetchCmd)
	RootCmd.AddCommand(exportCmd)
}
