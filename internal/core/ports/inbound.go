package ports

import (
	"context"
	"io"

	"github.com/avelkov/study-tutor-backend/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload.
type DocumentIngestor interface {
	Upload(ctx context.Context, originalFilename string, body io.Reader) (*domain.Document, error)
}

// DocumentLibrary is the inbound read model over the catalog and blobs.
type DocumentLibrary interface {
	List(ctx context.Context) ([]domain.Document, error)
	Download(ctx context.Context, id int64) (*domain.Document, []byte, error)
}

// TutorService answers free-text questions, optionally grounded in one
// attached document.
type TutorService interface {
	Ask(ctx context.Context, question string, attachment []byte) (*domain.AskResult, error)
}

// QuizService generates quizzes from stored documents.
type QuizService interface {
	Generate(ctx context.Context, spec domain.QuizSpec) (*domain.Quiz, error)
}
