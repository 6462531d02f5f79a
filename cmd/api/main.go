package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/purushottamk3112/MoodVibe/internal/adapters/gemini"
	"github.com/purushottamk3112/MoodVibe/internal/adapters/googleauth"
	"github.com/purushottamk3112/MoodVibe/internal/adapters/rest"
	"github.com/purushottamk3112/MoodVibe/internal/adapters/spotify"
	"github.com/purushottamk3112/MoodVibe/internal/adapters/sqlite"
	"github.com/purushottamk3112/MoodVibe/internal/auth"
	"github.com/purushottamk3112/MoodVibe/internal/config"
	"github.com/purushottamk3112/MoodVibe/internal/core/services"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// 1. Configuration: crash early if required settings are missing.
	conf, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("configuration error")
	}

	// 2. Driven adapters.
	repo, err := sqlite.NewAdapter(conf.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize database")
	}
	defer repo.Close()

	catalog := spotify.NewClient(conf.Spotify, logger)
	analyzer := gemini.NewClient(conf.Gemini, logger)

	jwtManager, err := auth.NewJWTManager(conf.Auth.JWTSecret)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize token signing")
	}

	var google rest.GoogleAuthenticator
	if conf.Google.Enabled() {
		google = googleauth.New(conf.Google)
	} else {
		logger.Warn("google login not configured; federated routes disabled")
	}

	// 3. Core services with adapters injected.
	recommender := services.NewRecommender(analyzer, catalog)
	authSvc := services.NewAuthService(repo, jwtManager)

	// 4. Driving adapter.
	handler := rest.NewHandler(recommender, authSvc, google, rest.GateMode(conf.Auth.Mode), logger)
	defer handler.Close()

	// 5. Serve.
	srv := &http.Server{
		Addr:              conf.Server.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	logger.WithFields(logrus.Fields{
		"addr":      srv.Addr,
		"auth_mode": conf.Auth.Mode,
	}).Info("MoodVibe API is running")

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.WithError(err).Fatal("server error")
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("shutdown error")
		}
	}
}
