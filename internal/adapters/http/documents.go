package httpadapter

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avelkov/study-tutor-backend/internal/core/domain"
)

// documentSummary is the wire shape of a catalog entry: "filename" is the
// original display name, not the storage name.
type documentSummary struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	UploadTime time.Time `json:"upload_time"`
}

func summarize(doc *domain.Document) documentSummary {
	return documentSummary{
		ID:         doc.ID,
		Filename:   doc.OriginalFilename,
		UploadTime: doc.UploadTime,
	}
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(r.Context(), fileHeader.Filename, file)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, summarize(doc))
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	docs, err := rt.library.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	summaries := make([]documentSummary, 0, len(docs))
	for i := range docs {
		summaries = append(summaries, summarize(&docs[i]))
	}
	writeJSON(w, http.StatusOK, summaries)
}

// downloadDocument serves GET /api/documents/{id}/download. Unknown ids are
// the one place that signals failure through the status code.
func (rt *Router) downloadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	idPart, ok := strings.CutSuffix(rest, "/download")
	if !ok || idPart == "" || strings.Contains(idPart, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Document not found"})
		return
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Document not found"})
		return
	}

	doc, data, err := rt.library.Download(r.Context(), id)
	if err != nil {
		switch {
		case domain.IsKind(err, domain.ErrDocumentNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Document not found"})
		case domain.IsKind(err, domain.ErrStorageInconsistent):
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Document storage is inconsistent"})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		}
		return
	}

	contentType := "application/octet-stream"
	if doc.IsPDF() {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", contentDisposition(doc.OriginalFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func contentDisposition(filename string) string {
	sanitized := strings.NewReplacer("\"", "", "\r", "", "\n", "").Replace(filename)
	return "attachment; filename=\"" + sanitized + "\""
}
