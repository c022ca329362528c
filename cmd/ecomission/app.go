package main

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/bethwel3001/Eco-mission/internal/core/ports"
	"github.com/bethwel3001/Eco-mission/internal/core/service"
	"github.com/bethwel3001/Eco-mission/internal/infrastructure/db/mongo"
	"github.com/bethwel3001/Eco-mission/internal/infrastructure/db/redis"
	"github.com/bethwel3001/Eco-mission/internal/infrastructure/messaging"
	"github.com/bethwel3001/Eco-mission/internal/infrastructure/queue"
	"github.com/bethwel3001/Eco-mission/internal/pkg/config"
	"github.com/bethwel3001/Eco-mission/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// app holds the connections and services shared by every subcommand.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	mongoClient *mongodriver.Client
	db          *mongodriver.Database
	rdb         *goredis.Client
	nats        *messaging.NATSNotifier

	users      *mongo.UserRepository
	missions   *mongo.MissionRepository
	denylist   *redis.TokenDenylist
	dispatcher *queue.Dispatcher

	auth        *service.AuthService
	catalog     *service.CatalogService
	analytics   ports.AnalyticsService
	leaderboard ports.LeaderboardService
	ledger      ports.LedgerService
	notifier    ports.Notifier
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: appName,
	})

	a := &app{cfg: cfg, log: log}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	a.mongoClient, a.db = client, db
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		a.close()
		return nil, err
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		a.close()
		return nil, err
	}
	a.rdb = rdb

	if cfg.NATS.URL != "" {
		nc, err := messaging.Connect(messaging.Config{
			URL:           cfg.NATS.URL,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
			Name:          appName,
		}, logger.Component("nats"))
		if err != nil {
			a.close()
			return nil, err
		}
		a.nats, a.notifier = nc, nc
	} else {
		a.notifier = messaging.NewLogNotifier(logger.Component("alerts"))
	}

	a.users = mongo.NewUserRepository(db)
	a.missions = mongo.NewMissionRepository(db)
	a.denylist = redis.NewTokenDenylist(rdb)
	a.dispatcher = queue.NewDispatcher(cfg.Ledger.Workers, logger.Component("dispatcher"))

	a.auth = service.NewAuthService(
		a.users,
		a.denylist,
		cfg.JWTSecret,
		cfg.TokenTTL,
		cfg.AdminEmails,
		logger.Component("auth"),
	)

	a.catalog = service.NewCatalogService(a.missions, logger.Component("catalog"))
	a.analytics = service.NewAnalyticsService(mongo.NewAnalyticsRepository(db), logger.Component("analytics"))
	a.leaderboard = service.NewLeaderboardService(
		a.users,
		redis.NewLeaderboardCache(rdb, cfg.Leaderboard.CacheTTL),
		logger.Component("leaderboard"),
	)
	a.ledger = service.NewLedgerService(
		a.users,
		a.missions,
		a.analytics,
		a.leaderboard,
		a.dispatcher,
		service.LedgerOptions{MaxAttempts: cfg.Ledger.MaxAttempts},
		logger.Component("ledger"),
	)

	return a, nil
}

func (a *app) decayService() *service.DecayService {
	return service.NewDecayService(
		a.users,
		a.dispatcher,
		a.notifier,
		a.leaderboard,
		a.cfg.Decay.Policy(),
		a.cfg.Decay.Interval,
		logger.Component("decay"),
	)
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.nats != nil {
		if err := a.nats.Close(); err != nil {
			a.log.Warn().Err(err).Msg("nats drain failed")
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.Warn().Err(err).Msg("redis close failed")
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
