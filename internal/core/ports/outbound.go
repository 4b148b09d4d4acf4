package ports

import (
	"context"
	"io"

	"github.com/avelkov/study-tutor-backend/internal/core/domain"
)

// DocumentRepository persists and reads catalog rows.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
}

// ObjectStorage stores uploaded blobs under flat keys.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// TextExtractor produces best-effort plain text from raw document bytes.
// It never fails: unusable input yields the empty string.
type TextExtractor interface {
	Extract(data []byte) string
}

// CompletionRequest is one call to the remote completion API.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float32
}

// CompletionGateway invokes the external text-generation service.
type CompletionGateway interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// EventPublisher announces successful uploads to interested consumers.
type EventPublisher interface {
	PublishDocumentUploaded(ctx context.Context, documentID int64) error
}
