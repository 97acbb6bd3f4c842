package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/linkscout/linkscout-api/config"
	"github.com/linkscout/linkscout-api/internal/adapters/llm"
	redisadapter "github.com/linkscout/linkscout-api/internal/adapters/redis"
	"github.com/linkscout/linkscout-api/internal/adapters/workflow"
	"github.com/linkscout/linkscout-api/internal/data"
	"github.com/linkscout/linkscout-api/internal/observability/statsd"
	"github.com/linkscout/linkscout-api/internal/ports"
	"github.com/linkscout/linkscout-api/internal/service"
)

// ServiceContainer holds the constructed service layer.
type ServiceContainer struct {
	Jobs     *service.JobService
	Callback *service.CallbackService
	Reaper   *service.ReaperService
	Drafts   *service.DraftService
	Profiles *service.ProfileService
	Auth     *service.AuthService

	Metrics *statsd.Client
}

// ServiceDeps groups dependencies for NewServices.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires repositories, adapters, and services.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metricsClient, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.Metrics.IsEnabled(),
		Address: cfg.Observability.Metrics.StatsdAddress,
		Prefix:  "linkscout",
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init statsd: %w", err)
	}

	repoCfg := data.RepoConfig{Logger: logger}
	jobRepo := data.NewJobRepo(deps.DB, repoCfg)
	profileRepo := data.NewProfileRepo(deps.DB, repoCfg)

	trigger, err := buildTrigger(cfg, jobRepo, logger)
	if err != nil {
		return nil, err
	}

	llmClient := llm.FromAppConfig(cfg.LLM, logger)
	sessions := redisadapter.NewSessionStore(deps.RedisClient)

	jobs, err := service.NewJobService(service.JobServiceOptions{
		Repo:    jobRepo,
		Trigger: trigger,
		Logger:  logger,
		Metrics: metricsClient,
	})
	if err != nil {
		return nil, fmt.Errorf("init job service: %w", err)
	}

	callbackSvc, err := service.NewCallbackService(service.CallbackServiceOptions{
		Repo:    jobRepo,
		Logger:  logger,
		Metrics: metricsClient,
	})
	if err != nil {
		return nil, fmt.Errorf("init callback service: %w", err)
	}

	reaper, err := service.NewReaperService(service.ReaperServiceOptions{
		Repo:    jobRepo,
		Config:  cfg.Reaper,
		Logger:  logger,
		Metrics: metricsClient,
	})
	if err != nil {
		return nil, fmt.Errorf("init reaper service: %w", err)
	}

	drafts, err := service.NewDraftService(service.DraftServiceOptions{
		Profiles: profileRepo,
		Jobs:     jobRepo,
		Drafter:  llmClient,
		Logger:   logger,
		Metrics:  metricsClient,
	})
	if err != nil {
		return nil, fmt.Errorf("init draft service: %w", err)
	}

	profiles, err := service.NewProfileService(service.ProfileServiceOptions{
		Repo:      profileRepo,
		Extractor: llmClient,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init profile service: %w", err)
	}

	auth, err := service.NewAuthService(service.AuthServiceOptions{
		Sessions: sessions,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init auth service: %w", err)
	}

	return &ServiceContainer{
		Jobs:     jobs,
		Callback: callbackSvc,
		Reaper:   reaper,
		Drafts:   drafts,
		Profiles: profiles,
		Auth:     auth,
		Metrics:  metricsClient,
	}, nil
}

// buildTrigger selects the real workflow client when a trigger URL is
// configured, otherwise the local simulator.
//
//nolint:ireturn // callers only need the port.
func buildTrigger(
	cfg *config.AppConfig,
	jobRepo *data.JobRepo,
	logger *slog.Logger,
) (ports.WorkflowTrigger, error) {
	if cfg.Workflow.TriggerURL != "" {
		client, err := workflow.FromAppConfig(cfg.Workflow, logger)
		if err != nil {
			return nil, fmt.Errorf("init workflow trigger: %w", err)
		}
		return client, nil
	}

	logger.Warn("no workflow trigger URL configured, using simulated completions")
	return workflow.NewSimulator(jobRepo, cfg.Workflow.SimulatedDelay, logger), nil
}
