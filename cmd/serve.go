package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blogforge/blogd/config"
	"github.com/blogforge/blogd/imagehost"
	"github.com/blogforge/blogd/routes"
	"github.com/blogforge/blogd/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API with graceful shutdown.

SIGTERM or SIGINT drains connections and exits. SIGUSR2 starts a new
process on the same socket and drains the old one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := utils.InitLogger(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.DBDriver, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			utils.Logger.Warn("close store", zap.Error(err))
		}
	}()

	images, err := imagehost.New(cfg)
	if err != nil {
		return err
	}

	rc := utils.NewRedis(ctx, cfg)
	if rc != nil {
		defer rc.Close()
	}

	accessLog, err := utils.NewRollingFileLogger(cfg)
	if err != nil {
		utils.Logger.Warn("gin access log unavailable, using app log", zap.Error(err))
		accessLog = utils.Logger
	}

	r := routes.SetupRouter(routes.Deps{
		Config:    cfg,
		Store:     st,
		Images:    images,
		Tokens:    utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL()),
		Blacklist: utils.NewTokenBlacklist(rc),
		Cache:     utils.NewCache(rc, cfg.CacheTTL()),
		AccessLog: accessLog,
	})

	utils.StartUploadCleaner(ctx, cfg.UploadDir, cfg.UploadStaleAfter(), 5*time.Minute)

	utils.Logger.Info("starting server",
		zap.String("port", cfg.AppPort),
		zap.String("store", cfg.DBDriver),
		zap.String("images", cfg.ImageHost),
		zap.Bool("redis", rc != nil),
	)
	return utils.GraceServer(ctx, ":"+cfg.AppPort, r)
}
