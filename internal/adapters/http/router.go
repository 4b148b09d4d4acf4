package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/avelkov/study-tutor-backend/internal/config"
	"github.com/avelkov/study-tutor-backend/internal/core/ports"
	"github.com/avelkov/study-tutor-backend/internal/observability/metrics"
)

const serviceName = "study-tutor-api"

type Router struct {
	cfg     config.Config
	ingest  ports.DocumentIngestor
	library ports.DocumentLibrary
	tutor   ports.TutorService
	quizzes ports.QuizService
	metrics *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	ingest ports.DocumentIngestor,
	library ports.DocumentLibrary,
	tutor ports.TutorService,
	quizzes ports.QuizService,
	serverMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:     cfg,
		ingest:  ingest,
		library: library,
		tutor:   tutor,
		quizzes: quizzes,
		metrics: serverMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/api/ask", rt.ask)
	mux.HandleFunc("/api/documents/upload", rt.uploadDocument)
	mux.HandleFunc("/api/documents", rt.listDocuments)
	mux.HandleFunc("/api/documents/", rt.downloadDocument)
	mux.HandleFunc("/api/quiz/generate", rt.generateQuiz)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.cfg.APIMaxInFlight > 0 {
		handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, defaultBackpressureWait)
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
