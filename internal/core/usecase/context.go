package usecase

import (
	"context"
	"strings"

	"github.com/avelkov/study-tutor-backend/internal/core/domain"
	"github.com/avelkov/study-tutor-backend/internal/core/ports"
)

// ContextAssembler turns a list of document ids into one bounded prompt
// context. Unknown ids and non-PDF documents are skipped silently; a missing
// blob behind a known id is a hard storage-inconsistency error.
type ContextAssembler struct {
	repo      ports.DocumentRepository
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
}

func NewContextAssembler(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
) *ContextAssembler {
	return &ContextAssembler{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
	}
}

// Assemble visits ids in the given order, duplicates included, and appends
// each document's extracted text plus a newline separator. The result is
// prefix-truncated to maxChars runes with no boundary awareness.
func (a *ContextAssembler) Assemble(ctx context.Context, ids []int64, maxChars int) (string, error) {
	var builder strings.Builder
	for _, id := range ids {
		doc, err := a.repo.GetByID(ctx, id)
		if err != nil {
			if domain.IsKind(err, domain.ErrDocumentNotFound) {
				continue
			}
			return "", err
		}
		if !doc.IsPDF() {
			continue
		}

		data, err := retrieveBytes(ctx, a.storage, doc)
		if err != nil {
			return "", err
		}
		builder.WriteString(a.extractor.Extract(data))
		builder.WriteString("\n")
	}
	return truncate(builder.String(), maxChars), nil
}

// truncate keeps the first maxChars characters. Counting runes instead of
// bytes avoids splitting a UTF-8 sequence mid-character.
func truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
