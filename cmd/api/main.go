package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kopimi-kafe/backend/internal/bootstrap"
	"github.com/kopimi-kafe/backend/internal/chat"
	"github.com/kopimi-kafe/backend/internal/config"
	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/handler"
	"github.com/kopimi-kafe/backend/internal/hours"
	"github.com/kopimi-kafe/backend/internal/metrics"
	"github.com/kopimi-kafe/backend/internal/notify"
	"github.com/kopimi-kafe/backend/internal/store"
)

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	/**********************************************
	 * durable storage
	 **********************************************/
	blob, err := bootstrap.OpenBlobStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open blob store", "driver", cfg.Blob.Driver, "error", err)
		return
	}
	defer blob.Close()
	if cfg.Blob.Driver == bootstrap.DriverMemory {
		logger.Warn("using the in-memory blob store, data is lost on restart")
	}

	/**********************************************
	 * synchronized store
	 **********************************************/
	metrics.Register()

	st := store.New(
		store.NewBlobBackend(blob, cfg.Blob.Key),
		store.WithDebounce(cfg.Debounce()),
		store.WithLogger(logger),
	)
	snapshot := st.Load(ctx)
	logger.Info("loaded shop data", "menuItems", len(snapshot.MenuItems), "baristas", len(snapshot.Baristas))

	/**********************************************
	 * notifications
	 **********************************************/
	var notifier notify.Notifier = notify.Nop{}
	if cfg.RabbitMQ.DSN != "" {
		conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			return
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			logger.Error("failed to open channel", "error", err)
			return
		}
		defer ch.Close()

		if err := notify.DeclareQueue(ch, cfg.RabbitMQ.Queue); err != nil {
			logger.Error("failed to declare queue", "queue", cfg.RabbitMQ.Queue, "error", err)
			return
		}

		notifier = notify.NewPublisher(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
	} else {
		logger.Warn("RABBITMQ_DSN is not set, notifications are disabled")
	}

	/**********************************************
	 * barista chat
	 **********************************************/
	var generator chat.Generator = chat.Unavailable{}
	if cfg.Chat.APIKey != "" {
		g, err := chat.NewGenAI(ctx, cfg.Chat.APIKey, cfg.Chat.Model, cfg.Chat.Temperature)
		if err != nil {
			logger.Error("failed to create chat client", "error", err)
			return
		}
		generator = g
	} else {
		logger.Warn("CHAT_API_KEY is not set, barista chat is disabled")
	}

	/**********************************************
	 * shop status
	 **********************************************/
	loc, err := cfg.Location()
	if err != nil {
		logger.Error("invalid shop timezone", "timezone", cfg.Shop.Timezone, "error", err)
		return
	}
	ticker := hours.NewTicker(func() *domain.OperatingHours {
		return store.Get(st, store.Settings).OperatingHours
	}, loc, time.Duration(cfg.Shop.StatusInterval)*time.Second)
	go ticker.Run(ctx)

	/**********************************************
	 * handler
	 **********************************************/
	h, err := handler.NewHandler(cfg, st, notifier, generator, ticker)
	if err != nil {
		logger.Error("failed to create handler", "error", err)
		return
	}
	h.RegisterRoutes()

	/**********************************************
	 * HTTP server
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      h.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down server", "error", err)
	}

	// the last debounced change must reach storage before the process exits
	if err := st.Close(shutdownCtx); err != nil {
		logger.Error("failed to flush pending write", "error", err)
	}
	if state, err := st.WriteState(); err != nil {
		logger.Warn("last write did not succeed", "state", state, "error", err)
	}

	logger.Info("server stopped")
}
