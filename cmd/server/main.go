package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	shop "github.com/goliatone/go-shop"
	"github.com/goliatone/go-shop/config"
	"github.com/goliatone/go-shop/mailer"
	"github.com/goliatone/go-shop/payments"
	"github.com/goliatone/go-shop/repository"
	"github.com/goliatone/go-shop/rest"
	"github.com/goliatone/go-shop/storage"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(logLevel(os.Getenv("LOG_LEVEL"))),
		glog.WithName("shop"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	if err := run(lgr); err != nil {
		lgr.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(lgr *glog.BaseLogger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to connect to mongo")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			lgr.Error("mongo disconnect failed", "error", err)
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to ping mongo")
	}

	db := client.Database(cfg.MongoDatabase)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to ensure indexes")
	}

	repo := repository.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		return err
	}

	tokens := shop.NewTokenService(cfg, lgr.GetLogger("tokens"))
	hasher := shop.NewHasher(cfg.GetBcryptCost())
	auther := shop.NewAuthenticator(repo, tokens, hasher).
		WithLogger(lgr.GetLogger("auth"))

	mail, err := mailer.NewMailer(mailer.Config{
		APIKey:       cfg.SendGridAPIKey,
		FromName:     cfg.MailFromName,
		FromEmail:    cfg.MailFromEmail,
		BaseURL:      cfg.FrontendBaseURL,
		TemplatesDir: cfg.MailTemplates,
	})
	if err != nil {
		return err
	}
	mail.WithLogger(lgr.GetLogger("mailer"))

	files, err := storage.NewUploader(ctx, storage.Config{
		Region:       cfg.S3Region,
		Bucket:       cfg.S3Bucket,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		BaseEndpoint: cfg.S3Endpoint,
	})
	if err != nil {
		return err
	}
	files.WithLogger(lgr.GetLogger("storage"))

	gateway, err := payments.NewGateway(payments.Config{
		KeyID:         cfg.RazorpayKeyID,
		KeySecret:     cfg.RazorpayKeySecret,
		WebhookSecret: cfg.RazorpayWebhookSecret,
	})
	if err != nil {
		return err
	}
	gateway.WithLogger(lgr.GetLogger("payments"))

	server := rest.New(rest.Deps{
		Config: cfg,
		Repo:   repo,
		Auth:   auther,
		Tokens: tokens,
		Register: shop.NewRegisterUserHandler(repo, tokens, hasher, mail).
			WithLogger(lgr.GetLogger("register")),
		Verify: shop.NewVerifyAccountHandler(repo).
			WithLogger(lgr.GetLogger("verify")),
		ResetInit: shop.NewInitializePasswordResetHandler(repo, tokens, mail, cfg.GetResetTokenTTL()).
			WithLogger(lgr.GetLogger("reset")),
		ResetFinalize: shop.NewFinalizePasswordResetHandler(repo, hasher).
			WithLogger(lgr.GetLogger("reset")),
		Files:   files,
		Gateway: gateway,
		Logger:  lgr.GetLogger("http"),
		Debug:   cfg.Debug,
	})

	errCh := make(chan error, 1)
	go func() {
		lgr.Info("listening", "addr", cfg.ListenAddr)
		errCh <- server.Listen(cfg.ListenAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lgr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func logLevel(name string) string {
	switch name {
	case "trace":
		return glog.Trace
	case "debug":
		return glog.Debug
	case "warn":
		return glog.Warn
	case "error":
		return glog.Error
	default:
		return glog.Info
	}
}
