package main

import (
	"aime-backend/config"
	"aime-backend/internal/api"
	"aime-backend/internal/metrics"
	"aime-backend/internal/service"
	"aime-backend/internal/util"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = config.AppConfig.HTTPAddr
			}
			return serve(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "监听地址，默认读取 HTTP_ADDR")
	return cmd
}

func serve(addr string) error {
	util.Logger.Info("应用程序启动")

	store, db, err := openStore()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.NewMetrics(reg)
	if err != nil {
		return err
	}

	var mailer service.Mailer
	if config.AppConfig.SMTPEnabled() {
		mailer = service.NewEmailService(config.AppConfig)
	} else {
		util.Logger.Info("未配置 SMTP，邮件通知已关闭")
	}

	svc := service.NewServices(store, mailer, config.AppConfig.ImpactRetractOnRegression, m)
	opts := api.Options{
		FrontendURL: config.AppConfig.FrontendURL,
		Metrics:     m,
		Gatherer:    reg,
	}
	if db != nil {
		opts.Ping = db.PingContext
	}
	router := api.NewRouter(svc, opts)

	if config.AppConfig.Debug {
		for _, route := range router.Routes() {
			util.Logger.Debug("路由",
				zap.String("method", route.Method),
				zap.String("path", route.Path),
				zap.String("handler", route.Handler))
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		util.Logger.Info("服务器正在启动", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// 等待中断信号以优雅地关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			util.Logger.Error("启动服务器失败", zap.Error(err))
			return err
		}
	case <-quit:
	}
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Error("服务器强制关闭", zap.Error(err))
		return err
	}

	util.Logger.Info("服务器已优雅关闭")
	return nil
}
