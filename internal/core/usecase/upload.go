package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avelkov/study-tutor-backend/internal/core/domain"
	"github.com/avelkov/study-tutor-backend/internal/core/ports"
)

type UploadDocumentUseCase struct {
	repo      ports.DocumentRepository
	storage   ports.ObjectStorage
	publisher ports.EventPublisher
}

func NewUploadDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	publisher ports.EventPublisher,
) *UploadDocumentUseCase {
	return &UploadDocumentUseCase{
		repo:      repo,
		storage:   storage,
		publisher: publisher,
	}
}

// Upload writes the blob fully before touching the catalog. A crash between
// the two steps leaves an orphan blob but never a dangling catalog row.
func (uc *UploadDocumentUseCase) Upload(
	ctx context.Context,
	originalFilename string,
	body io.Reader,
) (*domain.Document, error) {
	if strings.TrimSpace(originalFilename) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", fmt.Errorf("empty filename"))
	}

	now := time.Now().UTC()
	storageName := buildStorageName(now, originalFilename)

	if err := uc.storage.Save(ctx, storageName, body); err != nil {
		return nil, fmt.Errorf("save blob: %w", err)
	}

	doc := &domain.Document{
		StorageName:      storageName,
		OriginalFilename: originalFilename,
		UploadTime:       now,
		FilePath:         storageName,
	}
	if err := uc.repo.Create(ctx, doc); err != nil {
		// The blob stays behind as an orphan. Acceptable: readers only ever
		// see committed catalog rows.
		return nil, fmt.Errorf("create catalog row: %w", err)
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishDocumentUploaded(ctx, doc.ID); err != nil {
			slog.Warn("publish upload event failed", "document_id", doc.ID, "error", err)
		}
	}

	return doc, nil
}

// buildStorageName derives a catalog-unique blob key. The random infix keeps
// two same-second uploads of the same file name from colliding.
func buildStorageName(now time.Time, originalFilename string) string {
	return fmt.Sprintf("%d_%s_%s", now.Unix(), uuid.NewString()[:8], sanitizeFilename(originalFilename))
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "document.bin"
	}
	return base
}
