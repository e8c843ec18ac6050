package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"caseflow/internal/audit"
	"caseflow/internal/audit/publisher"
	auditmemory "caseflow/internal/audit/store/memory"
	auditpostgres "caseflow/internal/audit/store/postgres"
	"caseflow/internal/audit/worker"
	"caseflow/internal/cases/casenumber"
	"caseflow/internal/cases/handler"
	"caseflow/internal/cases/metrics"
	"caseflow/internal/cases/service"
	"caseflow/internal/cases/store/assignment"
	"caseflow/internal/cases/store/casestore"
	"caseflow/internal/cases/store/sequence"
	"caseflow/internal/migrate"
	"caseflow/internal/platform/config"
	"caseflow/internal/platform/httpserver"
	"caseflow/internal/platform/logger"
	"caseflow/internal/platform/middleware"
	platformredis "caseflow/internal/platform/redis"
	httptransport "caseflow/internal/transport/http"
)

const (
	shutdownGrace   = 10 * time.Second
	auditBufferSize = 256
)

// main wires dependencies and runs the server plus the audit fan-out worker
// until a shutdown signal arrives. Business logic lives in internal packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	var (
		caseStore   service.CaseStore
		assignStore service.AssignmentStore
		auditStore  audit.Store
		seqStore    casenumber.SequenceStore
	)

	if cfg.DatabaseDSN != "" {
		db, err := sql.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		if err := migrate.Up(ctx, db); err != nil {
			return err
		}
		caseStore = casestore.NewPostgres(db)
		assignStore = assignment.NewPostgres(db)
		auditStore = auditpostgres.New(db)
		seqStore = sequence.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		caseStore = casestore.NewInMemory()
		assignStore = assignment.NewInMemory()
		auditStore = auditmemory.New()
		seqStore = sequence.NewInMemory()
		log.Warn("no database configured, using in-memory stores")
	}

	// A dedicated Redis counter takes sequence traffic off the primary
	// database when configured.
	if cfg.RedisAddr != "" {
		client, err := platformredis.New(cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		seqStore = sequence.NewRedis(client)
		log.Info("using redis sequence counter", zap.String("addr", cfg.RedisAddr))
	}

	var fanout chan audit.Entry
	var sink worker.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaClient, err := kgo.NewClient(
			kgo.SeedBrokers(cfg.KafkaBrokers...),
			kgo.DefaultProduceTopic(cfg.AuditTopic),
		)
		if err != nil {
			return err
		}
		defer kafkaClient.Close()
		sink = publisher.NewKafka(kafkaClient, cfg.AuditTopic)
		fanout = make(chan audit.Entry, auditBufferSize)
		log.Info("audit fan-out enabled", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	recorder := audit.NewRecorder(auditStore, fanout, log)
	svc := service.New(caseStore, assignStore, casenumber.NewGenerator(seqStore), recorder,
		service.WithMetrics(metrics.New()),
		service.WithLogger(log),
	)

	h := handler.New(svc, log)
	verifier := middleware.NewTokenVerifier(cfg.JWTSigningKey)
	router := httptransport.NewRouter(h, verifier, log)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	if sink != nil {
		w := worker.New(sink, fanout, log)
		g.Go(func() error { return w.Run(ctx) })
	}

	g.Go(func() error {
		log.Info("starting caseflow server", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		return httpserver.Shutdown(srv, shutdownGrace)
	})

	return g.Wait()
}
