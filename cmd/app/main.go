package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"

	"tours-service/internal/blob"
	"tours-service/internal/config"
	"tours-service/internal/events"
	availabilityList "tours-service/internal/http-server/handlers/availability/list"
	availabilitySet "tours-service/internal/http-server/handlers/availability/set"
	invoiceDownload "tours-service/internal/http-server/handlers/invoices/download"
	invoiceLock "tours-service/internal/http-server/handlers/invoices/lock"
	invoicePreview "tours-service/internal/http-server/handlers/invoices/preview"
	participantAdd "tours-service/internal/http-server/handlers/participants/add"
	participantAttendance "tours-service/internal/http-server/handlers/participants/attendance"
	participantRemove "tours-service/internal/http-server/handlers/participants/remove"
	profileBank "tours-service/internal/http-server/handlers/profile/bank"
	profileGet "tours-service/internal/http-server/handlers/profile/get"
	profileSave "tours-service/internal/http-server/handlers/profile/save"
	pushSend "tours-service/internal/http-server/handlers/push/send"
	pushSubscribe "tours-service/internal/http-server/handlers/push/subscribe"
	sharingInvite "tours-service/internal/http-server/handlers/sharing/invite"
	sharingInvites "tours-service/internal/http-server/handlers/sharing/invites"
	sharingRespond "tours-service/internal/http-server/handlers/sharing/respond"
	sharingShares "tours-service/internal/http-server/handlers/sharing/shares"
	sharingUnshare "tours-service/internal/http-server/handlers/sharing/unshare"
	tourTypeCreate "tours-service/internal/http-server/handlers/tour_types/create"
	tourTypeDelete "tours-service/internal/http-server/handlers/tour_types/delete"
	tourTypeList "tours-service/internal/http-server/handlers/tour_types/list"
	tourTypeUpdate "tours-service/internal/http-server/handlers/tour_types/update"
	tourAccept "tours-service/internal/http-server/handlers/tours/accept"
	tourCreate "tours-service/internal/http-server/handlers/tours/create"
	tourDecline "tours-service/internal/http-server/handlers/tours/decline"
	tourDelete "tours-service/internal/http-server/handlers/tours/delete"
	tourGet "tours-service/internal/http-server/handlers/tours/get"
	tourList "tours-service/internal/http-server/handlers/tours/list"
	tourReschedule "tours-service/internal/http-server/handlers/tours/reschedule"
	"tours-service/internal/invoice"
	"tours-service/internal/lock"
	"tours-service/internal/notify"
	"tours-service/internal/pdf"
	svc "tours-service/internal/service"
	"tours-service/internal/storage/postgres"
	slogpretty "tours-service/pkg/handlers/slogPretty"
	"tours-service/pkg/middleware/mwAuth"
	"tours-service/pkg/middleware/mwLogger"
	"tours-service/pkg/middleware/mwRateLimit"
	"tours-service/pkg/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, Retry-After")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = storage.Migrate(migrateCtx)
	cancelMigrate()
	if err != nil {
		log.Error("Failed to apply migrations", sl.Err(err))
		os.Exit(1)
	}

	rdb, err := lock.Connect(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Error("Failed to connect to redis", sl.Err(err))
		os.Exit(1)
	}
	locker := lock.NewRedisLock(rdb)

	tmplSrc := ""
	if cfg.Invoice.TemplatePath != "" {
		raw, err := os.ReadFile(cfg.Invoice.TemplatePath)
		if err != nil {
			log.Error("Failed to read invoice template", sl.Err(err))
			os.Exit(1)
		}
		tmplSrc = string(raw)
	}

	renderer, err := pdf.New(cfg.Invoice.Renderer, cfg.Invoice.ChromePath, invoice.NewTemplate(tmplSrc))
	if err != nil {
		log.Error("Failed to init invoice renderer", sl.Err(err))
		os.Exit(1)
	}

	blobs, err := blob.New(cfg.Invoice.BlobRoot)
	if err != nil {
		log.Error("Failed to init invoice storage", sl.Err(err))
		os.Exit(1)
	}

	deps := svc.Deps{
		Renderer:      renderer,
		Blobs:         blobs,
		Location:      cfg.Location(),
		LockTTL:       cfg.Redis.LockTTL,
		RenderTimeout: cfg.Invoice.RenderTimeout,
	}

	var dispatcher *notify.Dispatcher
	if cfg.Push.Enabled {
		sender := notify.NewWebPushSender(cfg.Push.Subscriber, cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey, cfg.Push.TTL)
		dispatcher = notify.NewDispatcher(log, storage, sender, cfg.Push.Timeout)
		deps.Notifier = dispatcher
	} else {
		log.Info("Push notifications are disabled")
	}

	if cfg.AMQP.URL != "" {
		deps.Events = events.NewAMQPPublisher(cfg.AMQP.URL)
	} else {
		log.Info("Event publishing is disabled")
	}

	service := svc.NewService(log, storage, locker, deps)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	router.Group(func(r chi.Router) {
		r.Use(mwAuth.New(log, cfg.Auth.JWTSecret, cfg.Auth.Issuer))
		if cfg.RateLimit.Enabled {
			r.Use(mwRateLimit.New(log, rdb, mwRateLimit.Config{
				Capacity:       cfg.RateLimit.Capacity,
				RefillTokens:   cfg.RateLimit.RefillTokens,
				RefillInterval: cfg.RateLimit.RefillInterval,
				TTL:            cfg.RateLimit.TTL,
				KeyStrategy:    cfg.RateLimit.KeyStrategy,
				Prefix:         cfg.RateLimit.Prefix,
			}))
		}

		// Tours
		r.Post("/tours", tourCreate.New(log, service))
		r.Get("/tours", tourList.New(log, service))
		r.Get("/tours/{id}", tourGet.New(log, service))
		r.Post("/tours/{id}/accept", tourAccept.New(log, service))
		r.Post("/tours/{id}/decline", tourDecline.New(log, service))
		r.Put("/tours/{id}/time", tourReschedule.New(log, service))
		r.Delete("/tours/{id}", tourDelete.New(log, service))

		// Participants
		r.Post("/tours/{id}/participants", participantAdd.New(log, service))
		r.Delete("/tours/{id}/participants/{pid}", participantRemove.New(log, service))
		r.Put("/tours/{id}/participants/{pid}/attendance", participantAttendance.New(log, service))

		// Invoices
		r.Get("/tours/{id}/invoice", invoicePreview.New(log, service))
		r.Post("/tours/{id}/lock", invoiceLock.New(log, service))
		r.Get("/tours/{id}/invoice/pdf", invoiceDownload.New(log, service))

		// Tour types
		r.Post("/tour_types", tourTypeCreate.New(log, service))
		r.Get("/tour_types", tourTypeList.New(log, service))
		r.Put("/tour_types/{id}", tourTypeUpdate.New(log, service))
		r.Delete("/tour_types/{id}", tourTypeDelete.New(log, service))

		// Profile
		r.Get("/profile", profileGet.New(log, service))
		r.Put("/profile", profileSave.New(log, service))
		r.Put("/profile/bank", profileBank.New(log, service))

		// Availability
		r.Get("/availability", availabilityList.New(log, service))
		r.Put("/availability", availabilitySet.New(log, service))

		// Sharing
		r.Post("/invites", sharingInvite.New(log, service))
		r.Get("/invites", sharingInvites.New(log, service))
		r.Post("/invites/{id}/respond", sharingRespond.New(log, service))
		r.Get("/shares", sharingShares.New(log, service))
		r.Delete("/shares/{id}", sharingUnshare.New(log, service))

		// Push
		r.Post("/push/subscriptions", pushSubscribe.New(log, service))
		r.Post("/notifications", pushSend.New(log, service))
	})

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout + cfg.Invoice.RenderTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if dispatcher != nil {
		if err := dispatcher.Wait(ctx); err != nil {
			log.Warn("Pending notifications abandoned", sl.Err(err))
		}
	}

	if err := storage.Close(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	} else {
		log.Info("Storage closed")
	}

	if err := locker.Close(); err != nil {
		log.Error("Failed to close redis", sl.Err(err))
	} else {
		log.Info("Redis closed")
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
