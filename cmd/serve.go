package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pulse-news/pkg/config"
	"pulse-news/pkg/handlers"
	"pulse-news/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.LogLevel != "debug" && !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	var cache services.ResponseCache = services.NewMemoryCache()
	if cfg.RedisURL != "" {
		rc, err := services.NewRedisCache(cfg.RedisURL, cfg.CachePrefix)
		if err != nil {
			return err
		}
		defer rc.Close()
		if err := rc.Ping(cmd.Context()); err != nil {
			logger.Warn("Redis unavailable, responses will not be shared", zap.Error(err))
		}
		cache = rc
	}

	client := services.NewClient(services.ClientConfigFrom(cfg), cache, logger)

	// SIGHUP drops every cached response, e.g. after a content publish.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for range hup {
			if err := client.Invalidate(context.Background()); err != nil {
				logger.Error("Error invalidating response cache", zap.Error(err))
				continue
			}
			logger.Info("Response cache invalidated")
		}
	}()
	images := services.NewImageURLBuilder(cfg.ProjectID, cfg.Dataset)

	h := &handlers.Handler{
		Articles: services.NewArticles(client, logger, cfg.ListRevalidate, cfg.DetailRevalidate),
		Pages:    services.NewPages(cfg.ContentDir, logger),
		Renderer: services.NewRenderer(images, cfg.Site.Ads.InArticle),
		Images:   images,
		Site:     cfg.Site,
		Log:      logger,
	}
	router := handlers.NewRouter(h, cfg.TemplateGlob, cfg.StaticDir)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", zap.String("addr", cfg.Addr), zap.String("dataset", cfg.Dataset))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
