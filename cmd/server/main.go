package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"go.uber.org/zap"

	httpadapter "stratforge/internal/adapter/http"
	"stratforge/internal/adapter/oracle/openai"
	gormrepo "stratforge/internal/adapter/repo/gorm"
	"stratforge/internal/adapter/repo/memory"
	mongorepo "stratforge/internal/adapter/repo/mongo"
	staticscenario "stratforge/internal/adapter/scenario/static"
	"stratforge/internal/app/act"
	"stratforge/internal/app/cheat"
	"stratforge/internal/app/game"
	"stratforge/internal/app/ports"
	"stratforge/internal/app/scenario"
	"stratforge/internal/app/turn"
	"stratforge/internal/platform/config"
	"stratforge/internal/platform/logs"
	"stratforge/internal/platform/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logs.New("stratforge", logs.Config{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Dev:        cfg.LogDev,
	})
	defer func() { _ = logger.Sync() }()

	if cfg.TokenSecret == "" {
		log.Fatal("STRATFORGE_TOKEN_SECRET is required")
	}

	games := mustBuildGameRepo(cfg, logger)
	scenarios := mustBuildScenarioRepo(cfg, logger)
	oracle := buildOracle(cfg, logger)

	h := httpadapter.Handler{
		GameUC: game.UseCase{Games: games, Scenarios: scenarios},
		ActUC:  act.UseCase{Games: games},
		TurnUC: turn.UseCase{
			Games:  games,
			Oracle: oracle,
			Mode:   turn.Mode(cfg.TurnMode),
		},
		CheatUC:    cheat.UseCase{Games: games},
		ScenarioUC: scenario.UseCase{Scenarios: scenarios},
		Tokens:     token.Service{Secret: []byte(cfg.TokenSecret), TTL: cfg.TokenTTL},
	}

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	s.Use(httpadapter.CORSMiddleware())
	s.Use(httpadapter.AccessLogMiddleware(logger))
	h.RegisterRoutes(s)

	logger.Info("stratforge server listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("storage", cfg.Storage),
		zap.String("turn_mode", cfg.TurnMode),
	)
	s.Spin()
}

func mustBuildGameRepo(cfg config.Config, logger *zap.Logger) ports.GameRepository {
	switch cfg.Storage {
	case "postgres":
		if cfg.PostgresDSN == "" {
			log.Fatal("STRATFORGE_DB_DSN is required for postgres storage")
		}
		db, err := gormrepo.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		if err := gormrepo.ApplyMigrations(context.Background(), db, cfg.MigrateDir); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
		return gormrepo.NewGameRepo(db)
	case "mongo":
		client, err := mongorepo.Open(cfg.MongoURI, cfg.MongoTimeout, logger)
		if err != nil {
			log.Fatalf("open mongodb: %v", err)
		}
		return mongorepo.NewGameRepo(client.Database(cfg.MongoDB))
	case "memory":
		logger.Warn("using in-memory storage, games are lost on restart")
		return memory.NewGameRepo(memory.NewStore())
	default:
		log.Fatalf("unknown storage backend %q", cfg.Storage)
		return nil
	}
}

func mustBuildScenarioRepo(cfg config.Config, logger *zap.Logger) ports.ScenarioRepository {
	repo, err := staticscenario.NewRepo(cfg.ScenarioDir)
	if err != nil {
		log.Fatalf("load scenarios from %s: %v", cfg.ScenarioDir, err)
	}
	list, _ := repo.List(context.Background())
	logger.Info("scenario catalog loaded", zap.Int("count", len(list)))
	return repo
}

// buildOracle returns nil when no API key is configured; the turn
// resolver then runs on its deterministic default policy alone.
func buildOracle(cfg config.Config, logger *zap.Logger) ports.DecisionOracle {
	if cfg.OracleAPIKey == "" {
		logger.Warn("no oracle api key configured, AI runs on the default policy")
		return nil
	}
	timeout := cfg.OracleTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return openai.NewClient(openai.Config{
		BaseURL:    cfg.OracleBaseURL,
		APIKey:     cfg.OracleAPIKey,
		Model:      cfg.OracleModel,
		HTTPClient: &http.Client{Timeout: timeout},
	})
}
