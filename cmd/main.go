package main

import (
	"aime-backend/config"
	"aime-backend/internal/common"
	"aime-backend/internal/repository/interfaces"
	"aime-backend/internal/repository/memory"
	"aime-backend/internal/repository/mysql"
	"aime-backend/internal/util"
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
			os.Exit(1)
		}
	}()

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "aime",
		Short:         "AIME 平台后端：统计、影响地图与会员服务",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.Init()
			util.InitLogger(config.AppConfig.LogLevel)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = util.Logger.Sync()
		},
	}

	root.AddCommand(newServeCommand(), newMigrateCommand(), newStatsCommand(), newTokenCommand())
	return root
}

// openDB 打开并检查 MySQL 连接
func openDB() (*sql.DB, error) {
	db, err := sql.Open("mysql", config.AppConfig.DSN())
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}
	// 数据库可能晚于服务启动
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	err = common.WithRetry(ctx, 5, 2*time.Second, func(ctx context.Context) error {
		err := db.PingContext(ctx)
		if err != nil {
			util.Logger.Warn("数据库暂不可用", zap.Error(err))
		}
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	util.Logger.Info("数据库连接成功")
	return db, nil
}

// openStore 按配置的驱动创建存储，memory 驱动不返回数据库连接
func openStore() (interfaces.Store, *sql.DB, error) {
	if config.AppConfig.DBDriver == "memory" {
		util.Logger.Warn("使用内存存储，数据不会持久化")
		return memory.NewStore(), nil, nil
	}

	db, err := openDB()
	if err != nil {
		return nil, nil, err
	}
	return mysql.NewStore(db), db, nil
}
