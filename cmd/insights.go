package cmd

import (
	"context"
	"fmt"

	"inventory-tracker/feature/insights"

	"github.com/spf13/cobra"
)

var insightsOwner string

// insightsCmd prints the insight document for one owner.
var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Print inventory insights for an owner",
	RunE: func(cmd *cobra.Command, args []string) error {
		if insightsOwner == "" {
			return fmt.Errorf("--owner is required")
		}

		env, err := setup()
		if err != nil {
			return err
		}
		defer env.Close()

		generator, err := insights.NewGenerator(env.cfg.Insights, env.logger)
		if err != nil {
			return err
		}
		cache, err := insights.NewCache(env.cfg.Insights)
		if err != nil {
			return err
		}

		svc := insights.NewService(env.inventory, generator, cache, env.logger)
		report, err := svc.Generate(context.Background(), insightsOwner)
		if err != nil {
			return fmt.Errorf("failed to generate insights: %w", err)
		}

		fmt.Println(report.Markdown)
		return nil
	},
}

func init() {
	insightsCmd.Flags().StringVar(&insightsOwner, "owner", "", "Owner id")
	RootCmd.AddCommand(insightsCmd)
}
