package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"artist-portfolio/database"
	routes "artist-portfolio/internal/app/http"
	"artist-portfolio/internal/domain/outbox"
	"artist-portfolio/internal/mail"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the outbox dispatcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateServer(); err != nil {
				return err
			}
			ctx := cmd.Context()
			return a.withDB(ctx, func(db *gorm.DB) error {
				if err := database.Migrate(ctx, db, a.log); err != nil {
					return err
				}
				if err := database.Seed(ctx, db, a.cfg, a.log); err != nil {
					return err
				}
				return a.serve(ctx, db)
			})
		},
	}
}

func (a *app) serve(ctx context.Context, db *gorm.DB) error {
	if a.cfg.GinMode != "" {
		gin.SetMode(a.cfg.GinMode)
	}

	sender := mail.NewSMTPSender(a.cfg.Mail)
	router := routes.NewRouter(routes.Deps{
		DB:         db,
		Log:        a.log,
		Sender:     sender,
		Composer:   mail.Composer{ArtistName: a.cfg.Mail.ArtistName, ArtistEmail: a.cfg.Mail.ArtistEmail},
		JWTSecret:  a.cfg.JWT.Secret,
		JWTTTL:     a.cfg.JWT.TTL,
		CORSOrigin: a.cfg.CORSOrigin,
	})
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	if a.cfg.Mail.Enabled() {
		d := mail.NewDispatcher(outbox.NewStore(db), sender, a.log, mail.DispatcherConfig{
			PollInterval: a.cfg.Mail.PollInterval,
			MaxAttempts:  a.cfg.Mail.MaxAttempts,
		})
		g.Go(func() error {
			d.Run(ctx)
			return nil
		})
	} else {
		a.log.Warn("SMTP not configured, outbox emails stay pending until EMAIL_USER and EMAIL_PASSWORD are set")
	}

	g.Go(func() error {
		a.log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
