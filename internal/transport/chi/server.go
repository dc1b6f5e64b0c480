package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/chat"
	domdoc "github.com/kailas-cloud/docchat/internal/domain/document"
	"github.com/kailas-cloud/docchat/internal/logger"
	collectionuc "github.com/kailas-cloud/docchat/internal/usecase/collection"
	documentuc "github.com/kailas-cloud/docchat/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docchat/internal/usecase/health"
	queryuc "github.com/kailas-cloud/docchat/internal/usecase/query"
	"github.com/kailas-cloud/docchat/internal/version"
)

// maxBodyBytes bounds inbound request bodies; uploads carry base64 files.
const maxBodyBytes = 64 << 20

// Server is the HTTP API in front of the document service.
type Server struct {
	collections *collectionuc.Service
	documents   *documentuc.Service
	query       *queryuc.Service
	health      *healthuc.Service
	logger      *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	collections *collectionuc.Service,
	documents *documentuc.Service,
	query *queryuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		collections: collections,
		documents:   documents,
		query:       query,
		health:      health,
		logger:      logger,
	}
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r gochi.Router) {
		r.Get("/collections", s.ListCollections)
		r.Post("/collections", s.ListCollections)
		r.Get("/collections/{collection}", s.GetCollection)

		r.Get("/documents", s.ListDocuments)
		r.Post("/documents", s.AddDocument)
		r.Get("/documents/status", s.DocumentStatus)

		r.Post("/rank", s.Rank)
		r.Post("/chat", s.Rank)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// ListCollections handles GET /api/collections.
func (s *Server) ListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := s.collections.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]collectionResponse, len(cols))
	for i, c := range cols {
		items[i] = collectionToResponse(c)
	}
	writeJSON(w, http.StatusOK, collectionListResponse{Collections: items})
}

// GetCollection handles GET /api/collections/{collection}.
func (s *Server) GetCollection(w http.ResponseWriter, r *http.Request) {
	col, err := s.collections.Get(r.Context(), gochi.URLParam(r, "collection"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collectionToResponse(col))
}

// ListDocuments handles GET /api/documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := domdoc.ListRequest{
		CollectionName: q.Get("collection_name"),
		PathPrefix:     q.Get("path_prefix"),
		PathGT:         q.Get("path_gt"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		req.Limit = limit
	}

	docs, err := s.documents.List(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentListResponse{Documents: docs})
}

// AddDocument handles POST /api/documents.
func (s *Server) AddDocument(w http.ResponseWriter, r *http.Request) {
	var body addDocumentRequest
	if !decodeBody(w, r, &body) {
		return
	}

	res, err := s.documents.Add(r.Context(), domdoc.AddRequest{
		CollectionName: body.CollectionName,
		Path:           body.Path,
		Content:        body.Content,
		Metadata:       body.Metadata,
		Overwrite:      body.Overwrite,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Status, messageResponse{Message: res.Message})
}

// DocumentStatus handles GET /api/documents/status.
func (s *Server) DocumentStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get("path")

	st, err := s.documents.Status(r.Context(), q.Get("collection_name"), path)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentStatusResponse{
		Path:        path,
		IndexStatus: st,
		Done:        st.Done(),
		Failed:      st.Failed(),
	})
}

// Rank handles POST /api/rank and its /api/chat alias.
func (s *Server) Rank(w http.ResponseWriter, r *http.Request) {
	var body rankRequest
	if !decodeBody(w, r, &body) {
		return
	}

	o, err := s.query.Submit(r.Context(), body.Message, body.SelectedCollections)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	msg := chat.NewAssistantMessage(queryuc.Format(o), &o)
	logger.FromContext(r.Context()).Debug("rank answered",
		zap.Int("selected", len(o.Selected())),
		zap.Int("results", len(o.Results())),
		zap.Int("errors", len(o.Errors())),
	)
	writeJSON(w, http.StatusOK, outcomeToResponse(&o, &msg))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// handleDomainError writes the preserved status and the user-facing message.
// Errors that did not come from the document client are hidden behind a 500.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var re *domain.RemoteError
	if !errors.As(err, &re) {
		log.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if re.Status >= http.StatusInternalServerError {
		log.Warn("document service error", zap.Error(err), zap.Int("status", re.Status))
	} else {
		log.Info("request rejected", zap.Error(err), zap.Int("status", re.Status))
	}
	writeError(w, domain.StatusOf(err), domain.MessageOf(err))
}
