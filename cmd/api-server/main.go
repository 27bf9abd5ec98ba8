// Package main API Server 入口
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sge-admin/internal/apiserver/server"
	"sge-admin/internal/config"
	"sge-admin/internal/shared/infra"
	"sge-admin/pkg/logging"
)

func main() {
	configDir := flag.String("config", "", "配置文件目录（覆盖 CONFIG_DIR）")
	flag.Parse()
	if *configDir != "" {
		config.SetConfigDir(*configDir)
	}

	// 加载配置（.env → configs/common.yaml → configs/{APP_ENV}.yaml → 环境变量）
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting SGE API Server... [env=%s]", cfg.Env)
	log.Printf("Config: %s", cfg.String())
	if cfg.ConfigFile == "" {
		log.Printf("No %s.yaml found, using defaults and environment", cfg.Env)
	}
	if cfg.JWTSecretGenerated {
		log.Printf("WARNING: JWT_SECRET not set, using a random per-process secret; tokens will not survive a restart")
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	inf, err := infra.Open(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to initialize infrastructure: %v", err)
	}
	defer inf.Close()

	h, err := server.NewHandler(cfg, inf, logger)
	if err != nil {
		log.Fatalf("Failed to initialize handler: %v", err)
	}

	// 初始化管理员账号（配置了 ADMIN_EMAIL / ADMIN_PASSWORD 时）
	if cfg.AdminEmail != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		admin, err := h.Credentials().EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		cancel()
		if err != nil {
			log.Fatalf("Failed to ensure admin user: %v", err)
		}
		log.Printf("[auth] Admin user ready: %s (%s)", admin.Email, admin.ID)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 优雅关闭
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("API Server listening on :%s (prefix %s)", cfg.Server.Port, cfg.Server.Prefix)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
	<-done
	log.Println("Server stopped")
}
