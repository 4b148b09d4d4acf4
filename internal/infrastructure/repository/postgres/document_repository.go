package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/avelkov/study-tutor-backend/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id BIGSERIAL PRIMARY KEY,
	filename TEXT NOT NULL UNIQUE,
	original_filename TEXT NOT NULL,
	upload_time TIMESTAMPTZ NOT NULL,
	file_path TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_upload_time ON documents(upload_time DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// Create inserts a catalog row and fills in the database-assigned id.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	row := r.db.QueryRowContext(ctx, `
INSERT INTO documents (filename, original_filename, upload_time, file_path)
VALUES ($1, $2, $3, $4)
RETURNING id
`, doc.StorageName, doc.OriginalFilename, doc.UploadTime, doc.FilePath)

	if err := row.Scan(&doc.ID); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, original_filename, upload_time, file_path
FROM documents
WHERE id = $1
`, id)

	var doc domain.Document
	err := row.Scan(&doc.ID, &doc.StorageName, &doc.OriginalFilename, &doc.UploadTime, &doc.FilePath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", err)
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, filename, original_filename, upload_time, file_path
FROM documents
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.StorageName, &doc.OriginalFilename, &doc.UploadTime, &doc.FilePath); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}
	return docs, nil
}
