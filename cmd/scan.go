package cmd

import (
	"context"
	"fmt"
	"os"

	"inventory-tracker/feature/scan"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	scanOwner    string
	scanFile     string
	scanPayload  string
	scanQuantity int
)

// scanCmd merges a QR code into an owner's inventory from the command line.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Merge a QR scan into an owner's inventory",
	Long: `Decodes a QR code from an image file (--file) or takes its text directly
(--payload) and merges it into the owner's inventory: the quantity of the
product with the same qrId is increased, or a new product is inserted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if scanOwner == "" {
			return fmt.Errorf("--owner is required")
		}
		if (scanFile == "") == (scanPayload == "") {
			return fmt.Errorf("exactly one of --file or --payload is required")
		}
		ctx := context.Background()

		env, err := setup()
		if err != nil {
			return err
		}
		defer env.Close()

		decoder, err := scan.NewDecoder(env.cfg.Scan, env.logger)
		if err != nil {
			return err
		}
		defer decoder.Close()
		svc := scan.NewService(decoder, env.inventory, env.logger)

		payload := scanPayload
		if scanFile != "" {
			f, err := os.Open(scanFile)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", scanFile, err)
			}
			defer f.Close()

			if payload, err = svc.DecodeUpload(ctx, scanOwner, f); err != nil {
				return fmt.Errorf("failed to decode %s: %w", scanFile, err)
			}
		}

		decision, err := svc.Merge(ctx, scanOwner, payload, scanQuantity)
		if err != nil {
			return fmt.Errorf("failed to merge scan: %w", err)
		}
		if err := env.inventory.Wait(ctx, scanOwner); err != nil {
			env.logger.Warn("Background write failed", zap.Error(err))
		}

		env.logger.Info("Scan merged",
			zap.String("op", string(decision.Op)),
			zap.String("id", decision.Product.ID),
			zap.String("product", decision.Product.ProductName),
			zap.Int("quantity", decision.Product.Quantity),
		)
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanOwner, "owner", "", "Owner id")
	scanCmd.Flags().StringVar(&scanFile, "file", "", "Image containing a QR code")
	scanCmd.Flags().StringVar(&scanPayload, "payload", "", "QR code text")
	scanCmd.Flags().IntVar(&scanQuantity, "quantity", 1, "Quantity to add")
	RootCmd.AddCommand(scanCmd)
}
