package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/avelkov/study-tutor-backend/internal/core/domain"
	"github.com/avelkov/study-tutor-backend/internal/core/ports"
)

type LibraryUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
}

func NewLibraryUseCase(repo ports.DocumentRepository, storage ports.ObjectStorage) *LibraryUseCase {
	return &LibraryUseCase{repo: repo, storage: storage}
}

func (uc *LibraryUseCase) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Download returns the catalog row and the stored bytes. A row whose blob is
// gone is reported as storage inconsistency, never as empty content.
func (uc *LibraryUseCase) Download(ctx context.Context, id int64) (*domain.Document, []byte, error) {
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := retrieveBytes(ctx, uc.storage, doc)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

func retrieveBytes(ctx context.Context, storage ports.ObjectStorage, doc *domain.Document) ([]byte, error) {
	reader, err := storage.Open(ctx, doc.FilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.WrapError(domain.ErrStorageInconsistent, "open blob", err)
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}
