package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avelkov/study-tutor-backend/internal/config"
	"github.com/avelkov/study-tutor-backend/internal/core/domain"
)

type ingestorFake struct {
	doc      *domain.Document
	err      error
	gotName  string
	gotBytes []byte
}

func (f *ingestorFake) Upload(_ context.Context, originalFilename string, body io.Reader) (*domain.Document, error) {
	f.gotName = originalFilename
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.gotBytes = data
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

type libraryFake struct {
	docs        []domain.Document
	listErr     error
	downloadDoc *domain.Document
	downloadRaw []byte
	downloadErr error
	gotID       int64
}

func (f *libraryFake) List(context.Context) ([]domain.Document, error) {
	return f.docs, f.listErr
}

func (f *libraryFake) Download(_ context.Context, id int64) (*domain.Document, []byte, error) {
	f.gotID = id
	if f.downloadErr != nil {
		return nil, nil, f.downloadErr
	}
	return f.downloadDoc, f.downloadRaw, nil
}

type tutorFake struct {
	result        *domain.AskResult
	err           error
	gotQuestion   string
	gotAttachment []byte
}

func (f *tutorFake) Ask(_ context.Context, question string, attachment []byte) (*domain.AskResult, error) {
	f.gotQuestion = question
	f.gotAttachment = attachment
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type quizFake struct {
	quiz    *domain.Quiz
	err     error
	gotSpec domain.QuizSpec
}

func (f *quizFake) Generate(_ context.Context, spec domain.QuizSpec) (*domain.Quiz, error) {
	f.gotSpec = spec
	if f.err != nil {
		return nil, f.err
	}
	return f.quiz, nil
}

type routerFixture struct {
	ingest  *ingestorFake
	library *libraryFake
	tutor   *tutorFake
	quizzes *quizFake
	handler http.Handler
}

func newRouterFixture(cfg config.Config) *routerFixture {
	f := &routerFixture{
		ingest:  &ingestorFake{},
		library: &libraryFake{},
		tutor:   &tutorFake{},
		quizzes: &quizFake{},
	}
	f.handler = NewRouter(cfg, f.ingest, f.library, f.tutor, f.quizzes, nil).Handler()
	return f
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func multipartBody(t *testing.T, field, filename string, content []byte, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	for k, v := range extra {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s): %v", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	f := newRouterFixture(config.Config{})

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestUploadDocument(t *testing.T) {
	f := newRouterFixture(config.Config{})
	uploaded := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	f.ingest.doc = &domain.Document{
		ID:               7,
		StorageName:      "1756548000_ab12cd34_notes.pdf",
		OriginalFilename: "notes.pdf",
		UploadTime:       uploaded,
		FilePath:         "./data/uploads/1756548000_ab12cd34_notes.pdf",
	}

	body, contentType := multipartBody(t, "file", "notes.pdf", []byte("%PDF-1.4 payload"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if f.ingest.gotName != "notes.pdf" {
		t.Fatalf("ingested filename = %q", f.ingest.gotName)
	}
	if string(f.ingest.gotBytes) != "%PDF-1.4 payload" {
		t.Fatalf("ingested bytes = %q", f.ingest.gotBytes)
	}

	var summary documentSummary
	decodeBody(t, rec, &summary)
	if summary.ID != 7 || summary.Filename != "notes.pdf" || !summary.UploadTime.Equal(uploaded) {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestUploadDocumentRequiresFile(t *testing.T) {
	f := newRouterFixture(config.Config{})

	body, contentType := multipartBody(t, "", "", nil, map[string]string{"other": "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListDocuments(t *testing.T) {
	f := newRouterFixture(config.Config{})
	f.library.docs = []domain.Document{
		{ID: 1, OriginalFilename: "a.pdf", UploadTime: time.Unix(1756500000, 0).UTC()},
		{ID: 2, OriginalFilename: "b.pdf", UploadTime: time.Unix(1756500100, 0).UTC()},
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var summaries []documentSummary
	decodeBody(t, rec, &summaries)
	if len(summaries) != 2 || summaries[0].ID != 1 || summaries[1].Filename != "b.pdf" {
		t.Fatalf("summaries = %+v", summaries)
	}
}

func TestListDocumentsEmptyIsArray(t *testing.T) {
	f := newRouterFixture(config.Config{})
	f.library.docs = []domain.Document{}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))

	if got := bytes.TrimSpace(rec.Body.Bytes()); string(got) != "[]" {
		t.Fatalf("body = %q, want []", got)
	}
}

func TestDownloadDocument(t *testing.T) {
	f := newRouterFixture(config.Config{})
	f.library.downloadDoc = &domain.Document{
		ID:               3,
		OriginalFilename: "report.pdf",
		FilePath:         "./data/uploads/1756548000_ab12cd34_report.pdf",
	}
	f.library.downloadRaw = []byte("%PDF-1.4 raw")

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents/3/download", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.library.gotID != 3 {
		t.Fatalf("requested id = %d", f.library.gotID)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="report.pdf"` {
		t.Fatalf("Content-Disposition = %q", got)
	}
	if rec.Body.String() != "%PDF-1.4 raw" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestDownloadDocumentNotFound(t *testing.T) {
	f := newRouterFixture(config.Config{})
	f.library.downloadErr = domain.WrapError(domain.ErrDocumentNotFound, "get document 999999", errors.New("no rows"))

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents/999999/download", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["detail"] != "Document not found" {
		t.Fatalf("body = %v", body)
	}
}

func TestDownloadDocumentMalformedID(t *testing.T) {
	f := newRouterFixture(config.Config{})

	for _, path := range []string{
		"/api/documents/abc/download",
		"/api/documents//download",
		"/api/documents/1/2/download",
		"/api/documents/1",
	} {
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: status = %d, want 404", path, rec.Code)
		}
	}
	if f.library.gotID != 0 {
		t.Fatalf("library was called with id %d", f.library.gotID)
	}
}

func TestDownloadDocumentStorageInconsistent(t *testing.T) {
	f := newRouterFixture(config.Config{})
	f.library.downloadErr = domain.WrapError(domain.ErrStorageInconsistent, "open blob for document 3", errors.New("file does not exist"))

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents/3/download", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["detail"] != "Document storage is inconsistent" {
		t.Fatalf("body = %v", body)
	}
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	f := newRouterFixture(config.Config{})

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("missing X-Request-Id header")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	f := newRouterFixture(config.Config{})

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/ask"},
		{http.MethodGet, "/api/quiz/generate"},
		{http.MethodGet, "/api/documents/upload"},
		{http.MethodPost, "/api/documents"},
		{http.MethodPost, "/api/documents/1/download"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: status = %d, want 405", tc.method, tc.path, rec.Code)
		}
	}
}
