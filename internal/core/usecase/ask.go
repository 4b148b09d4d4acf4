package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/avelkov/study-tutor-backend/internal/core/domain"
	"github.com/avelkov/study-tutor-backend/internal/core/ports"
)

type AskConfig struct {
	MaxTokens   int
	Temperature float32
}

type AskUseCase struct {
	extractor ports.TextExtractor
	gateway   ports.CompletionGateway
	cfg       AskConfig
}

func NewAskUseCase(extractor ports.TextExtractor, gateway ports.CompletionGateway, cfg AskConfig) *AskUseCase {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 512
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.2
	}
	return &AskUseCase{
		extractor: extractor,
		gateway:   gateway,
		cfg:       cfg,
	}
}

// Ask answers a free-text question. A nil attachment means no document was
// supplied and the placeholder context is used; an attachment that yields no
// text short-circuits with a fixed answer instead of calling the gateway.
// Gateway failures are folded into the answer text, not returned as errors.
func (uc *AskUseCase) Ask(ctx context.Context, question string, attachment []byte) (*domain.AskResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ask", fmt.Errorf("empty question"))
	}

	docContext := noDocumentContext
	if attachment != nil {
		extracted := uc.extractor.Extract(attachment)
		if strings.TrimSpace(extracted) == "" {
			return &domain.AskResult{Answer: domain.AskNoTextAnswer}, nil
		}
		docContext = extracted
	}

	answer, err := uc.gateway.Complete(ctx, ports.CompletionRequest{
		SystemPrompt: askSystemPrompt,
		UserPrompt:   composeAskPrompt(docContext, question),
		MaxTokens:    uc.cfg.MaxTokens,
		Temperature:  uc.cfg.Temperature,
	})
	if err != nil {
		gwErr := &domain.GatewayError{Cause: err}
		return &domain.AskResult{Answer: gwErr.Error()}, nil
	}

	return &domain.AskResult{Answer: strings.TrimSpace(answer)}, nil
}
