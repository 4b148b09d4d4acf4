package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avelkov/study-tutor-backend/internal/core/domain"
	"github.com/avelkov/study-tutor-backend/internal/core/ports"
)

type QuizConfig struct {
	ContextMaxChars int
	MaxTokens       int
	Temperature     float32
}

type GenerateQuizUseCase struct {
	assembler *ContextAssembler
	gateway   ports.CompletionGateway
	cfg       QuizConfig
}

func NewGenerateQuizUseCase(assembler *ContextAssembler, gateway ports.CompletionGateway, cfg QuizConfig) *GenerateQuizUseCase {
	if cfg.ContextMaxChars <= 0 {
		cfg.ContextMaxChars = quizContextMaxChars
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1800
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.3
	}
	return &GenerateQuizUseCase{
		assembler: assembler,
		gateway:   gateway,
		cfg:       cfg,
	}
}

// Generate assembles source text from the referenced documents and asks the
// gateway for a quiz. An empty context returns ErrNoExtractableText before
// any gateway call; gateway failures come back as *domain.GatewayError so the
// transport layer can embed them in a 200 payload.
func (uc *GenerateQuizUseCase) Generate(ctx context.Context, spec domain.QuizSpec) (*domain.Quiz, error) {
	assembled, err := uc.assembler.Assemble(ctx, spec.Resources, uc.cfg.ContextMaxChars)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(assembled) == "" {
		return nil, domain.WrapError(domain.ErrNoExtractableText, "assemble quiz context", fmt.Errorf("%d resources yielded no text", len(spec.Resources)))
	}

	raw, err := uc.gateway.Complete(ctx, ports.CompletionRequest{
		SystemPrompt: quizSystemPrompt,
		UserPrompt:   composeQuizPrompt(spec, assembled),
		MaxTokens:    uc.cfg.MaxTokens,
		Temperature:  uc.cfg.Temperature,
	})
	if err != nil {
		return nil, &domain.GatewayError{Cause: err}
	}

	return &domain.Quiz{
		Subject:       spec.Subject,
		QuestionTypes: spec.QuestionTypes,
		Difficulty:    spec.Difficulty,
		Length:        spec.Length,
		Resources:     spec.Resources,
		Questions:     parseQuestionArray(raw),
	}, nil
}

// parseQuestionArray recovers a JSON array from free-form gateway output by
// scanning for the outermost brackets. The bracket scan is best-effort and
// performs no element-shape validation; anything unparseable falls back to a
// single-element slice holding the raw text.
func parseQuestionArray(raw string) []any {
	raw = strings.TrimSpace(raw)
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		var questions []any
		if err := json.Unmarshal([]byte(raw[start:end+1]), &questions); err == nil {
			return questions
		}
	}
	return []any{raw}
}
