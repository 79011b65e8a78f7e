package main

import (
	"aime-backend/internal/repository/mysql"
	"aime-backend/internal/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|redo|version]",
		Short:     "执行数据库迁移",
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: []string{"up", "down", "status", "redo", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := mysql.Migrate(db, args[0], args[1:]...); err != nil {
				util.Logger.Error("数据库迁移失败", zap.Error(err), zap.String("command", args[0]))
				return err
			}
			util.Logger.Info("数据库迁移完成", zap.String("command", args[0]))
			return nil
		},
	}
}
