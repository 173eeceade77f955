package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"smart-resume/internal/exports"
	"smart-resume/internal/llm"
	openai "smart-resume/internal/llm/openai"
	"smart-resume/internal/resumes"
	"smart-resume/internal/services/health"
	"smart-resume/internal/shared/config"
	"smart-resume/internal/shared/server"
	"smart-resume/internal/shared/server/middleware"
	"smart-resume/internal/shared/storage/object"
	localstore "smart-resume/internal/shared/storage/object/local"
	s3store "smart-resume/internal/shared/storage/object/s3"
	"smart-resume/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	Store          object.ObjectStore
	Exports        *exports.Store
	LLM            llm.Client
	ResumesService *resumes.Service
	ResumesHandler *resumes.Handler
}

// Option adjusts Build.
type Option func(*buildOptions)

type buildOptions struct {
	llm   llm.Client
	store object.ObjectStore
}

// WithLLMClient replaces the configured model client.
func WithLLMClient(client llm.Client) Option {
	return func(o *buildOptions) { o.llm = client }
}

// WithObjectStore replaces the configured artifact store.
func WithObjectStore(store object.ObjectStore) Option {
	return func(o *buildOptions) { o.store = store }
}

// Build wires configuration into stores, clients, services and the router.
func Build(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	store := o.store
	if store == nil {
		var err error
		store, err = buildStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	client := o.llm
	if client == nil {
		var err error
		client, err = buildLLM(cfg)
		if err != nil {
			return nil, err
		}
	}

	exportStore := exports.NewStore(store)
	svc := resumes.NewService(client, exportStore)
	handler := resumes.NewHandler(svc, cfg.MaxUploadBytes)

	app := &App{
		Config:         cfg,
		Store:          store,
		Exports:        exportStore,
		LLM:            client,
		ResumesService: svc,
		ResumesHandler: handler,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:         cfg,
		ResumesHandler: handler,
		UploadLimiter:  middleware.NewRateLimiter(nil),
		Health:         health.NewService(cfg.ObjectStoreType, modelName(client)),
	})
	return app, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, s3store.Options{
			Region:    cfg.AWSRegion,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			KMSKeyID:  cfg.SSEKMSKeyID,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 store: %w", err)
		}
		telemetry.Info("bootstrap.store", map[string]any{"type": "s3", "bucket": cfg.S3Bucket, "prefix": cfg.S3Prefix})
		return store, nil
	default:
		store, err := localstore.New(cfg.LocalStoreDir)
		if err != nil {
			return nil, fmt.Errorf("local store: %w", err)
		}
		telemetry.Info("bootstrap.store", map[string]any{"type": "local", "dir": store.Dir()})
		return store, nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	client, err := openai.NewClient(cfg.LLMAPIKey, cfg.LLMModel,
		openai.WithBaseURL(cfg.LLMBaseURL),
		openai.WithTimeout(cfg.LLMTimeout),
		openai.WithAttribution(cfg.LLMReferer, cfg.LLMTitle),
	)
	if err != nil {
		return nil, err
	}
	telemetry.Info("bootstrap.llm", map[string]any{"model": client.Model()})
	return client, nil
}

func modelName(client llm.Client) string {
	if m, ok := client.(interface{ Model() string }); ok {
		return m.Model()
	}
	return ""
}
