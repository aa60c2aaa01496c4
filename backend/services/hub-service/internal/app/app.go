package app

import (
	"context"
	"database/sql"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	libredis "roamhub/backend/libs/redis"
	"roamhub/backend/services/hub-service/internal/auth"
	"roamhub/backend/services/hub-service/internal/config"
	"roamhub/backend/services/hub-service/internal/db"
	"roamhub/backend/services/hub-service/internal/dispatch"
	"roamhub/backend/services/hub-service/internal/handlers"
	httpserver "roamhub/backend/services/hub-service/internal/http"
	"roamhub/backend/services/hub-service/internal/http/middleware"
	"roamhub/backend/services/hub-service/internal/mq"
	redisstore "roamhub/backend/services/hub-service/internal/redis"
	"roamhub/backend/services/hub-service/internal/repository"
	"roamhub/backend/services/hub-service/internal/service"
	"roamhub/backend/services/hub-service/internal/ws"
)

// OICP operations served per endpoint.
const (
	OpPushEVSEData       = "eRoamingPushEvseData"
	OpPullEVSEData       = "eRoamingPullEvseData"
	OpPushEVSEStatus     = "eRoamingPushEvseStatus"
	OpPullEVSEStatus     = "eRoamingPullEvseStatus"
	OpPullEVSEStatusByID = "eRoamingPullEvseStatusById"
	OpAuthorizeStart     = "eRoamingAuthorizeStart"
	OpChargeDetailRecord = "eRoamingChargeDetailRecord"
)

// App wires all dependencies for the roaming hub.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *redis.Client
	broker *amqp.Connection
	pub    *mq.Publisher
	logger *zap.Logger
}

// New builds the application graph. Without a database DSN the directory is
// kept in memory; redis and the broker are used only when configured.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	var (
		store      service.DirectoryStore
		cdrStore   service.CDRStore
		messageLog dispatch.MessageLog
	)
	if cfg.Database.DSN != "" {
		conn, err := db.NewPostgres(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.db = conn
		store = repository.NewDirectoryStore(conn)
		cdrStore = repository.NewCDRRepository(conn)
		messageLog = repository.NewMessageLogRepository(conn)
	} else {
		logger.Warn("no database configured, directory is kept in memory")
		store = service.NewMemoryStore(nil)
		cdrStore = service.NewMemoryCDRStore()
	}

	var cache service.StatusCache
	if cfg.Redis.Addr != "" {
		client, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		cache = redisstore.NewStatusCache(client, cfg.Redis.TTL)
	}

	feed := ws.NewHub(logger)
	notifiers := service.Notifiers{feed}
	if cfg.AMQP.URL != "" {
		conn, err := mq.Dial(cfg.AMQP.URL, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.broker = conn
		pub, err := mq.NewPublisher(conn, cfg.AMQP.Exchange, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.pub = pub
		notifiers = append(notifiers, pub)
	}

	policy, err := service.NewPolicy(cfg.Authorization.ProviderID, cfg.Authorization.UIDs, cfg.Authorization.Contracts, cfg.PINs())
	if err != nil {
		a.Close()
		return nil, err
	}

	directory := service.NewDirectoryService(store, cache, notifiers, logger)
	authorizer := service.NewAuthorizer(policy, store, logger)
	cdrs := service.NewCDRService(cdrStore, logger)

	dataRouter := dispatch.NewRouter()
	dataRouter.Register(OpPushEVSEData, handlers.NewPushEVSEDataHandler(directory, logger))
	dataRouter.Register(OpPullEVSEData, handlers.NewPullEVSEDataHandler(directory, logger))

	statusRouter := dispatch.NewRouter()
	statusRouter.Register(OpPushEVSEStatus, handlers.NewPushEVSEStatusHandler(directory, logger))
	statusRouter.Register(OpPullEVSEStatus, handlers.NewPullEVSEStatusHandler(directory, logger))
	statusRouter.Register(OpPullEVSEStatusByID, handlers.NewPullEVSEStatusByIDHandler(directory, logger))

	authRouter := dispatch.NewRouter()
	authRouter.Register(OpAuthorizeStart, handlers.NewAuthorizeStartHandler(authorizer, logger))
	authRouter.Register(OpChargeDetailRecord, handlers.NewChargeDetailRecordHandler(cdrs, logger))

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	feedServer := ws.NewServer(feed, cfg.WebSocket.PingInterval, cfg.WebSocket.WriteTimeout, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		EVSEData:      dispatch.NewProcessor(dataRouter, messageLog, logger),
		EVSEStatus:    dispatch.NewProcessor(statusRouter, messageLog, logger),
		Authorization: dispatch.NewProcessor(authRouter, messageLog, logger),
		StatusFeed:    feedServer.HandleFeed,
		HealthHandler: httpserver.Health,
		MaxBodySize:   cfg.HTTP.MaxBodySize,
		Logger:        logger,
	}, middleware.PartnerAuth(tokens, logger))

	a.server = httpserver.NewServer(cfg.HTTPAddress(), router, cfg.HTTP.ReadTimeout, logger)
	return a, nil
}

// Run serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server.Run(ctx)
	})
	if a.broker != nil {
		closed := a.broker.NotifyClose(make(chan *amqp.Error, 1))
		g.Go(func() error {
			select {
			case <-ctx.Done():
			case err, ok := <-closed:
				if ok {
					a.logger.Error("rabbitmq connection lost, change events are no longer published", zap.Error(err))
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// Close releases resources.
func (a *App) Close() {
	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.logger.Warn("failed to close amqp channel", zap.Error(err))
		}
	}
	if a.broker != nil {
		if err := a.broker.Close(); err != nil {
			a.logger.Warn("failed to close amqp connection", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
