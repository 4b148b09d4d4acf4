package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avelkov/study-tutor-backend/internal/core/domain"
)

const quizNoTextError = "No text could be extracted from the selected documents."

// ask handles POST /api/ask: form field "question" plus an optional single
// file under "documents". The attached file is extracted in-request and never
// stored. Generation failures come back as HTTP 200 with the failure text in
// the answer field.
func (rt *Router) ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form body"})
		return
	}
	question := r.FormValue("question")
	if strings.TrimSpace(question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "form field 'question' is required"})
		return
	}

	var attachment []byte
	file, _, err := r.FormFile("documents")
	if err == nil {
		defer file.Close()
		attachment, err = io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read uploaded file"})
			return
		}
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid 'documents' upload"})
		return
	}

	start := time.Now()
	result, err := rt.tutor.Ask(r.Context(), question, attachment)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	rt.recordGeneration("ask", askOutcome(result.Answer), time.Since(start))

	writeJSON(w, http.StatusOK, result)
}

// generateQuiz handles POST /api/quiz/generate. Empty context and gateway
// failures stay HTTP 200 with an "error" field; only storage inconsistency
// escalates to a status code.
func (rt *Router) generateQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var spec domain.QuizSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if spec.Resources == nil {
		spec.Resources = []int64{}
	}

	start := time.Now()
	quiz, err := rt.quizzes.Generate(r.Context(), spec)
	if err != nil {
		switch {
		case domain.IsKind(err, domain.ErrNoExtractableText):
			rt.recordGeneration("quiz", "no_text", time.Since(start))
			rt.recordEmptyExtraction("quiz")
			writeJSON(w, http.StatusOK, map[string]string{"error": quizNoTextError})
		default:
			if gwErr, ok := domain.AsGatewayError(err); ok {
				rt.recordGeneration("quiz", "gateway_error", time.Since(start))
				writeJSON(w, http.StatusOK, map[string]string{"error": gwErr.Error()})
				return
			}
			rt.recordGeneration("quiz", "error", time.Since(start))
			writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		}
		return
	}
	rt.recordGeneration("quiz", "ok", time.Since(start))

	writeJSON(w, http.StatusOK, quiz)
}

// askOutcome labels an answer for metrics. Fallback and gateway failures are
// only distinguishable by their text, since both travel as normal answers.
func askOutcome(answer string) string {
	switch {
	case answer == domain.AskNoTextAnswer:
		return "no_text"
	case strings.HasPrefix(answer, domain.GatewayMessagePrefix):
		return "gateway_error"
	default:
		return "ok"
	}
}

func (rt *Router) recordGeneration(endpoint, status string, elapsed time.Duration) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.RecordGeneration(serviceName, endpoint, status, elapsed)
	if status == "no_text" && endpoint == "ask" {
		rt.metrics.RecordEmptyExtraction(serviceName, endpoint)
	}
}

func (rt *Router) recordEmptyExtraction(endpoint string) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.RecordEmptyExtraction(serviceName, endpoint)
}
