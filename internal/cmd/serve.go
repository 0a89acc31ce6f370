package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yatube/internal/pkg"
	"yatube/internal/repository/db"
	rrepo "yatube/internal/repository/redis"
	"yatube/internal/router"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server and the outbox relayer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(a.db); err != nil {
		return err
	}
	rdb, err := a.redis()
	if err != nil {
		return err
	}
	defer rdb.Close()

	images, mediaDir, err := a.imageStore(ctx)
	if err != nil {
		return err
	}
	sender, closeSender, err := a.outboxSender()
	if err != nil {
		return err
	}
	defer closeSender()

	tokens := &rrepo.UserRepository{Client: rdb, TTL: a.cfg.SessionTTL}
	emails := service.NewEmailService(a.mailer(), &rrepo.EmailRepository{Client: rdb})
	users := service.NewUserService(a.db, tokens, pkg.NewJWT(a.cfg.SecretKey, a.cfg.SessionTTL), emails)

	if a.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := router.InitRouter(router.Options{
		Posts:        service.NewPostService(a.db, images),
		Comments:     service.NewCommentService(a.db),
		Follows:      service.NewFollowService(a.db),
		Users:        users,
		Images:       images,
		PageCache:    a.pageCache(rdb),
		PageCacheTTL: a.cfg.PageCacheTTL,
		SessionTTL:   a.cfg.SessionTTL,
		MediaDir:     mediaDir,
		MediaURL:     a.cfg.MediaURL,
		Logger:       a.logger,
	})
	if err != nil {
		return err
	}

	relayer := service.NewOutboxRelayer(a.db, sender, a.logger)
	go relayer.Run(ctx)

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown", "error", err)
		}
	}()

	a.logger.Info("starting web server", "addr", a.cfg.Addr, "db", a.cfg.DBDriver, "page_cache", a.cfg.PageCache)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	a.logger.Info("web server stopped")
	return nil
}
