package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"singularshift/internal/audit"
	"singularshift/internal/cache"
	"singularshift/internal/config"
	"singularshift/internal/events"
	"singularshift/internal/insight"
	"singularshift/internal/llm"
	"singularshift/internal/report"
	"singularshift/internal/repository"
	"singularshift/internal/service"
	"singularshift/internal/session"
	"singularshift/internal/transport/rest"
	"singularshift/internal/transport/ws"
)

// App holds the wired server dependencies
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Mongo  *mongo.Client
	Redis  *redis.Client
	Events *events.Client // nil when NATS is not configured

	Interviews   repository.InterviewRepo
	Users        repository.UserRepo
	SessionCache cache.SessionCache

	AuthService      *service.AuthService
	InterviewService *service.InterviewService
	ReportService    *service.ReportService
	ExportService    *service.ExportService
	Pipeline         *audit.Pipeline
	Sessions         *session.Manager
	Hub              *ws.Hub

	stopJanitor context.CancelFunc
}

// OpenMongo connects and pings MongoDB
func OpenMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// New connects the backing services and wires every component
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	mongoClient, err := OpenMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	a.Mongo = mongoClient
	logger.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))

	db := mongoClient.Database(cfg.MongoDatabase)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.Redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	leaderboard := cache.NewLeaderboardCache(a.Redis)
	publisher := events.Multi{service.NewLeaderboardRecorder(leaderboard)}
	if cfg.NatsURL != "" {
		a.Events, err = events.NewClient(cfg.NatsURL, cfg.NatsToken, logger)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		publisher = append(publisher, a.Events)
		logger.Info("publishing audit events", zap.String("subject", events.SubjectAuditStored))
	}

	gw := repository.NewGateway(db)
	a.Interviews = repository.NewInterviewRepo(gw)
	a.Users = repository.NewUserRepo(gw)
	a.SessionCache = cache.NewSessionCache(a.Redis)
	tokens := cache.NewTokenCache(a.Redis)

	classifier := llm.NewForTask(cfg.AI, llm.TaskClassify)
	reporter := llm.NewForTask(cfg.AI, llm.TaskReport)
	logger.Info("completion providers",
		zap.String("classify", classifier.Provider()),
		zap.String("report", reporter.Provider()))
	requester := report.NewRequester(classifier, reporter, cfg.AI.StrictRoleCategories, logger)

	a.Pipeline = audit.NewPipeline(insight.New(), requester, a.Interviews, publisher, cfg.Session.MinSubstantiveMessages, logger)
	a.AuthService = service.NewAuthService(a.Users, tokens, cfg.JWTSecret, cfg.AdminEmails)
	a.InterviewService = service.NewInterviewService(a.Interviews)
	a.InterviewService.SetLeaderboard(leaderboard)
	a.ReportService = service.NewReportService(a.Pipeline, logger)
	a.ExportService = service.NewExportService(a.Interviews, logger)

	// hub implements service.Broadcaster
	a.Hub = ws.NewHub(logger)
	if cfg.Voice.AssistantID == "" {
		logger.Warn("VAPI_ASSISTANT_ID not set, interviews cannot start")
	}
	a.Sessions = session.NewManager(session.Deps{
		Processor:          a.Pipeline,
		Notifier:           service.NewSocketNotifier(a.Hub),
		Lock:               a.SessionCache,
		Statuses:           a.SessionCache,
		Logger:             logger,
		MaxDurationSeconds: cfg.Voice.MaxDurationSeconds,
	}, cfg.Voice.AssistantID, service.RelayFactory(a.Hub))

	if cfg.Session.SweepInterval > 0 {
		var janitorCtx context.Context
		janitorCtx, a.stopJanitor = context.WithCancel(context.Background())
		go a.Sessions.RunJanitor(janitorCtx, cfg.Session.SweepInterval, cfg.Session.IdleTimeout)
	}

	return a, nil
}

// Router builds the HTTP handler
func (a *App) Router() http.Handler {
	return rest.NewRouter(&rest.Container{
		AuthService:      a.AuthService,
		InterviewService: a.InterviewService,
		ReportService:    a.ReportService,
		ExportService:    a.ExportService,
		Sessions:         a.Sessions,
		SessionCache:     a.SessionCache,
		WSHub:            a.Hub,
		SecureCookie:     a.Config.CookieSecure,
		Logger:           a.Logger,
	})
}

// Close waits for in-flight interview processing, then releases connections
func (a *App) Close(ctx context.Context) {
	if a.stopJanitor != nil {
		a.stopJanitor()
	}
	if a.Sessions != nil {
		a.Sessions.Wait()
	}
	if a.Hub != nil {
		a.Hub.Close()
	}
	if a.Events != nil {
		a.Events.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.Mongo != nil {
		_ = a.Mongo.Disconnect(ctx)
	}
}
