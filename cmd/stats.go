package main

import (
	"aime-backend/internal/service"
	"encoding/json"

	"github.com/spf13/cobra"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "计算并输出站点统计快照（JSON）",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, db, err := openStore()
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}

			stats, err := service.NewStatsService(store, nil).GetSiteStatistics(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"stats":     stats,
				"formatted": stats.Formatted(),
			})
		},
	}
}
