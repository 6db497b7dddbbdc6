package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/libris/library-service/library/config"
	"github.com/libris/library-service/library/internal/handler"
	"github.com/libris/library-service/library/internal/repository"
	"github.com/libris/library-service/library/internal/scheduler"
	"github.com/libris/library-service/library/internal/server"
	"github.com/libris/library-service/library/internal/service"
	"github.com/libris/library-service/library/migrations"
	"github.com/libris/library-service/pkg/kafka"
	"github.com/libris/library-service/pkg/logger"
	"github.com/libris/library-service/pkg/mailer"
	"github.com/libris/library-service/pkg/postgres"
	"go.uber.org/zap"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}
	svc := service.NewService(repo, cfg.Auth, log)

	var publisher kafka.Publisher
	if producer, err := kafka.NewProducer(cfg.Kafka); err != nil {
		// reminder events are best-effort, the sweep runs without them
		log.Warn("kafka.NewProducer", zap.Error(err))
	} else {
		publisher = kafka.NewPublisher(producer)
		defer producer.Close() //nolint:errcheck
	}

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	sched := scheduler.New(repo, mailer.New(cfg.SMTP), publisher, log)
	go sched.Run(sweepCtx)

	h := handler.New(svc, svc, svc, svc, cfg.Auth, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	sweepCancel()
	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
