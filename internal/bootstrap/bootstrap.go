package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/avelkov/study-tutor-backend/internal/config"
	"github.com/avelkov/study-tutor-backend/internal/core/ports"
	"github.com/avelkov/study-tutor-backend/internal/core/usecase"
	"github.com/avelkov/study-tutor-backend/internal/infrastructure/extractor/pdftext"
	"github.com/avelkov/study-tutor-backend/internal/infrastructure/llm/openrouter"
	natsqueue "github.com/avelkov/study-tutor-backend/internal/infrastructure/queue/nats"
	"github.com/avelkov/study-tutor-backend/internal/infrastructure/repository/postgres"
	"github.com/avelkov/study-tutor-backend/internal/infrastructure/resilience"
	"github.com/avelkov/study-tutor-backend/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	IngestUC  ports.DocumentIngestor
	LibraryUC ports.DocumentLibrary
	TutorUC   ports.TutorService
	QuizUC    ports.QuizService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.UploadDir)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init blob storage: %w", err)
	}

	// NATS is an optional integration hook; without a URL uploads simply do
	// not publish events.
	var publisher ports.EventPublisher
	var closeQueue func()
	if cfg.NATSURL != "" {
		publishPolicy := resilience.PublishPolicy()
		queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
			Resilience: &publishPolicy,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init event publisher: %w", err)
		}
		publisher = queue
		closeQueue = queue.Close
	}

	gatewayPolicy := resilience.GatewayPolicy()
	gateway := openrouter.New(cfg.OpenRouterAPIKey, openrouter.Options{
		BaseURL:    cfg.OpenRouterBaseURL,
		Model:      cfg.OpenRouterModel,
		Timeout:    time.Duration(cfg.GatewayTimeoutSec) * time.Second,
		Resilience: &gatewayPolicy,
	})

	extractor := pdftext.New()
	assembler := usecase.NewContextAssembler(repo, storage, extractor)

	return &App{
		Config: cfg,

		IngestUC:  usecase.NewUploadDocumentUseCase(repo, storage, publisher),
		LibraryUC: usecase.NewLibraryUseCase(repo, storage),
		TutorUC: usecase.NewAskUseCase(extractor, gateway, usecase.AskConfig{
			MaxTokens:   cfg.AskMaxTokens,
			Temperature: float32(cfg.AskTemperature),
		}),
		QuizUC: usecase.NewGenerateQuizUseCase(assembler, gateway, usecase.QuizConfig{
			ContextMaxChars: cfg.ContextMaxChars,
			MaxTokens:       cfg.QuizMaxTokens,
			Temperature:     float32(cfg.QuizTemperature),
		}),

		closeFn: func() {
			if closeQueue != nil {
				closeQueue()
			}
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
