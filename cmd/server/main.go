// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/unclebandit/outreach-scheduler/internal/config"
	"github.com/unclebandit/outreach-scheduler/internal/controller"
	"github.com/unclebandit/outreach-scheduler/internal/db"
	"github.com/unclebandit/outreach-scheduler/internal/handler"
	"github.com/unclebandit/outreach-scheduler/internal/logger"
	"github.com/unclebandit/outreach-scheduler/internal/queue"
	"github.com/unclebandit/outreach-scheduler/internal/repository"
	"github.com/unclebandit/outreach-scheduler/internal/schedule"
	"github.com/unclebandit/outreach-scheduler/internal/service"
)

func main() {
	cfg := config.MustLoad()
	log := logger.MustNew(cfg.Logger)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Calendar.Location()
	if err != nil {
		return err
	}

	conn, err := db.Open(ctx, cfg.Database.DSN(), log)
	if err != nil {
		return err
	}
	defer conn.Close()

	sendRepo := &repository.SendRepository{DB: conn}
	prospectRepo := &repository.ProspectRepository{DB: conn}

	store := schedule.NewStore(schedule.Options{
		Location:        loc,
		LockWindow:      cfg.Calendar.LockWindow,
		ProximityWindow: cfg.Calendar.ProximityWindow,
		SaveConcurrency: cfg.Calendar.SaveConcurrency,
		Logger:          log.Named("schedule"),
	})

	svc := &service.SchedulingService{
		SendRepo:          sendRepo,
		ProspectRepo:      prospectRepo,
		Store:             store,
		UserID:            cfg.Calendar.UserID,
		CandidateStatuses: cfg.Calendar.CandidateStatuses,
		Log:               log.Named("service"),
	}
	if err := svc.Reload(ctx); err != nil {
		return err
	}

	q := queue.NewInMemoryQueue(log.Named("queue"))
	defer q.Close()
	if err := queue.StartSendUpdateSubscriber(q, svc, log); err != nil {
		return err
	}

	poller := service.NewPoller(sendRepo, store, q, cfg.Calendar.UserID, log.Named("poller"))
	jobs, err := service.StartCron(service.CronConfig{
		Location: loc,
		TickSpec: cfg.Calendar.TickSpec,
		PollSpec: cfg.Calendar.PollSpec,
	}, svc, poller, log)
	if err != nil {
		return err
	}
	defer func() { <-jobs.Stop().Done() }()

	calendarController := &controller.CalendarController{Service: svc, Log: log.Named("http")}
	updateHandler := handler.NewSendUpdateHandler(q, log.Named("webhook"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Calendar routes
	calendarController.Routes(r)
	r.Post("/webhooks/send-updates", updateHandler.ServeHTTP)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.AMQP.Enabled {
		consumer := &queue.AMQPConsumer{
			URL:       cfg.AMQP.URL,
			QueueName: cfg.AMQP.Queue,
			Bus:       q,
			Log:       log.Named("amqp"),
		}
		g.Go(func() error { return consumer.Run(gctx) })
	}

	err = g.Wait()
	if store.IsDirty() {
		log.Warn("shutting down with unsaved changes", zap.Int("pending", len(store.PendingUpdates())))
	}
	return err
}
