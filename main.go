package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/katatrina/postboard/api"
	"github.com/katatrina/postboard/internal/db/memory"
	db "github.com/katatrina/postboard/internal/db/sqlc"
	"github.com/katatrina/postboard/internal/event"
	"github.com/katatrina/postboard/internal/lifecycle"
	"github.com/katatrina/postboard/internal/notification"
	posttracking "github.com/katatrina/postboard/internal/post_tracking"
	"github.com/katatrina/postboard/internal/scheduler"
	"github.com/katatrina/postboard/internal/util"
	"github.com/katatrina/postboard/internal/worker"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}
	zerolog.SetGlobalLevel(config.ZerologLevel())

	log.Info().Msg("configurations loaded successfully ✅")

	// run trả về lỗi thay vì log.Fatal để các defer (đóng db, relay) luôn được chạy
	if err = run(config); err != nil {
		log.Error().Err(err).Msg("server stopped with error 😣")
		os.Exit(1)
	}
}

func run(config util.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newStore(ctx, config)
	if err != nil {
		return err
	}
	defer closeStore()

	waitGroup, ctx := errgroup.WithContext(ctx)

	hub := event.NewHub(config.SubscriberBuffer)
	publisher, closePublisher, err := newPublisher(ctx, waitGroup, config, hub)
	if err != nil {
		return err
	}
	defer closePublisher()

	notifications := notification.NewNotificationService(store)
	service := lifecycle.NewService(store, notifications, publisher, newScheduler(config))
	if err = service.Start(ctx); err != nil {
		return fmt.Errorf("failed to start post lifecycle: %w", err)
	}
	log.Info().Str("backend", config.SchedulerBackend).Msg("post lifecycle started ✅")

	tracker, err := posttracking.NewPostTracker(store, config.OverdueCheckInterval, config.OverdueGracePeriod)
	if err != nil {
		service.Shutdown()
		return fmt.Errorf("failed to create post tracker: %w", err)
	}
	if err = tracker.Start(); err != nil {
		service.Shutdown()
		return fmt.Errorf("failed to start post tracker: %w", err)
	}

	server, err := api.NewServer(store, service, notifications, hub, &config)
	if err != nil {
		tracker.Stop()
		service.Shutdown()
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	waitGroup.Go(func() error {
		return server.Start(config.HTTPServerAddress)
	})

	waitGroup.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shut down HTTP server")
		}
		if err := tracker.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop post tracker")
		}
		service.Shutdown()

		log.Info().Msg("graceful shutdown complete ✅")
		return nil
	})

	return waitGroup.Wait()
}

func newStore(ctx context.Context, config util.Config) (db.Store, func(), error) {
	if config.StoreDriver == util.StoreDriverMemory {
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	// Create connection pool
	connPool, err := pgxpool.New(ctx, config.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to validate db connection string: %w", err)
	}

	if err = connPool.Ping(ctx); err != nil {
		connPool.Close()
		return nil, nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	log.Info().Msg("connected to db ✅")

	if err = db.RunMigrations(ctx, connPool); err != nil {
		connPool.Close()
		return nil, nil, fmt.Errorf("failed to run db migrations: %w", err)
	}
	log.Info().Msg("db migrated successfully ✅")

	return db.NewStore(connPool), connPool.Close, nil
}

// newPublisher returns the hub itself or a relay in front of it. A relay forwards
// messages from the other instances into the local hub until ctx is done.
func newPublisher(ctx context.Context, waitGroup *errgroup.Group, config util.Config, hub *event.Hub) (event.Publisher, func(), error) {
	switch config.EventRelay {
	case util.EventRelayRedis:
		redisDb := redis.NewClient(&redis.Options{
			Addr:     config.RedisServerAddress,
			Password: "", // no password set
			DB:       0,  // use default DB
		})
		if err := redisDb.Ping(ctx).Err(); err != nil {
			redisDb.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		relay := event.NewRedisRelay(redisDb, hub)
		waitGroup.Go(func() error {
			return relay.Run(ctx)
		})

		return relay, func() {
			if err := redisDb.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close redis client")
			}
		}, nil

	case util.EventRelayAMQP:
		conn, err := amqp.Dial(config.AMQPURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}

		relay, err := event.NewAMQPRelay(conn, hub)
		if err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("failed to create amqp relay: %w", err)
		}
		waitGroup.Go(func() error {
			return relay.Run(ctx)
		})

		return relay, func() {
			if err := relay.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close amqp relay")
			}
			if err := conn.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close rabbitmq connection")
			}
		}, nil

	default:
		return hub, func() {}, nil
	}
}

func newScheduler(config util.Config) scheduler.Scheduler {
	if config.SchedulerBackend == util.SchedulerBackendRedis {
		return worker.NewTaskScheduler(asynq.RedisClientOpt{
			Addr: config.RedisServerAddress,
		})
	}

	return scheduler.NewTimerScheduler(config.CloseTimeout)
}
