package chi

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/perkdex/internal/domain"
	"github.com/kailas-cloud/perkdex/internal/domain/category"
	"github.com/kailas-cloud/perkdex/internal/domain/ingest"
	"github.com/kailas-cloud/perkdex/internal/domain/offer"
	"github.com/kailas-cloud/perkdex/internal/domain/search/mode"
	"github.com/kailas-cloud/perkdex/internal/domain/search/request"
	"github.com/kailas-cloud/perkdex/internal/domain/search/result"
	"github.com/kailas-cloud/perkdex/internal/logger"
	cataloguc "github.com/kailas-cloud/perkdex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/perkdex/internal/usecase/health"
)

// ErrorCode is a machine-readable error identifier in API responses.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeNotFound          ErrorCode = "not_found"
	CodeIndexNotReady     ErrorCode = "index_not_ready"
	CodeReindexInProgress ErrorCode = "reindex_in_progress"
	CodeSourceUnavailable ErrorCode = "source_unavailable"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the discount catalog over HTTP.
type Server struct {
	catalog       *cataloguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(catalog *cataloguc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		catalog: catalog,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrIndexNotReady, http.StatusServiceUnavailable, CodeIndexNotReady),
		sentinelHandler(domain.ErrReindexInProgress, http.StatusConflict, CodeReindexInProgress),
		sentinelHandler(domain.ErrSourceUnavailable, http.StatusServiceUnavailable, CodeSourceUnavailable),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Post("/search-discounts", s.SearchDiscounts)
	r.Get("/discounts/all", s.ListDiscounts)
	r.Get("/discounts/categories", s.ListCategories)
	r.Get("/documents/{source}", s.GetDiscount)
	r.Get("/stats", s.Stats)
	r.Post("/reindex", s.Reindex)
}

// SearchRequest is the body of POST /search-discounts.
type SearchRequest struct {
	Query    string  `json:"query"`
	Category *string `json:"category,omitempty"`
	TopK     *int    `json:"top_k,omitempty"`
	Strategy *string `json:"strategy,omitempty"`
}

// Discount is one offer in API responses.
type Discount struct {
	Name           string   `json:"name"`
	Discount       string   `json:"discount"`
	Category       string   `json:"category"`
	Code           *string  `json:"code"`
	HowToUse       string   `json:"how_to_use"`
	Bonus          *string  `json:"bonus"`
	Source         string   `json:"source"`
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Query      string              `json:"query"`
	Results    []Discount          `json:"results"`
	TotalFound int                 `json:"total_found"`
	ByCategory map[string][]string `json:"by_category"`
	Message    string              `json:"message"`
}

// SearchDiscounts handles POST /search-discounts.
func (s *Server) SearchDiscounts(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(body.Query) == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "query is required")
		return
	}

	var (
		topK     int
		cat      string
		strategy mode.Mode
	)
	if body.TopK != nil {
		topK = *body.TopK
	}
	if body.Category != nil {
		cat = *body.Category
	}
	if body.Strategy != nil {
		strategy = mode.Mode(*body.Strategy)
	}

	req, err := request.New(body.Query, strategy, topK, cat, s.catalog.Defaults())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results, err := s.catalog.Query(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResultsToResponse(body.Query, results))
}

// SearchResultsToResponse converts ranked results to their wire form.
func SearchResultsToResponse(query string, results []result.Result) SearchResponse {
	summary := cataloguc.Summarize(query, results)
	items := make([]Discount, len(results))
	for i := range results {
		items[i] = resultToDiscount(results[i])
	}
	return SearchResponse{
		Query:      query,
		Results:    items,
		TotalFound: len(items),
		ByCategory: summary.ByCategory,
		Message:    summary.Message,
	}
}

// ListResponse is the body of GET /discounts/all.
type ListResponse struct {
	TotalDiscounts int        `json:"total_discounts"`
	Discounts      []Discount `json:"discounts"`
}

// ListDiscounts handles GET /discounts/all.
func (s *Server) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RecordsToResponse(s.catalog.List(r.Context())))
}

// RecordsToResponse converts a store dump to its wire form.
func RecordsToResponse(records []offer.Record) ListResponse {
	items := make([]Discount, len(records))
	for i, rec := range records {
		items[i] = recordToDiscount(rec)
	}
	return ListResponse{TotalDiscounts: len(items), Discounts: items}
}

// GetDiscount handles GET /documents/{source}.
func (s *Server) GetDiscount(w http.ResponseWriter, r *http.Request) {
	rec, err := s.catalog.Get(r.Context(), chi.URLParam(r, "source"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordToDiscount(rec))
}

// CategoriesResponse is the body of GET /discounts/categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ListCategories handles GET /discounts/categories.
func (s *Server) ListCategories(w http.ResponseWriter, _ *http.Request) {
	all := category.All()
	labels := make([]string, len(all))
	for i, c := range all {
		labels[i] = c.String()
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: labels})
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	TotalDocuments int        `json:"total_documents"`
	TotalTerms     int        `json:"total_terms"`
	SnapshotID     string     `json:"snapshot_id,omitempty"`
	BuiltAt        *time.Time `json:"built_at,omitempty"`
	Strategy       string     `json:"strategy"`
}

// Stats handles GET /stats.
func (s *Server) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatsToResponse(s.catalog.Stats()))
}

// StatsToResponse converts catalog stats to their wire form.
func StatsToResponse(st cataloguc.Stats) StatsResponse {
	resp := StatsResponse{
		TotalDocuments: st.TotalDocuments,
		TotalTerms:     st.TotalTerms,
		SnapshotID:     st.SnapshotID,
		Strategy:       string(st.Strategy),
	}
	if !st.BuiltAt.IsZero() {
		t := st.BuiltAt
		resp.BuiltAt = &t
	}
	return resp
}

// SkippedDocument is one document left out of a rebuild.
type SkippedDocument struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// ReindexResponse is the body of POST /reindex.
type ReindexResponse struct {
	Indexed int               `json:"indexed"`
	Skipped []SkippedDocument `json:"skipped"`
}

// Reindex handles POST /reindex.
func (s *Server) Reindex(w http.ResponseWriter, r *http.Request) {
	report, err := s.catalog.Reindex(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ReportToResponse(report))
}

// ReportToResponse converts an ingest report to its wire form.
func ReportToResponse(report ingest.Report) ReindexResponse {
	resp := ReindexResponse{Indexed: report.Indexed(), Skipped: []SkippedDocument{}}
	for _, o := range report.Outcomes {
		if o.Status() != ingest.StatusSkipped {
			continue
		}
		reason := ""
		if o.Reason() != nil {
			reason = o.Reason().Error()
		}
		resp.Skipped = append(resp.Skipped, SkippedDocument{Source: o.DocID(), Reason: reason})
	}
	return resp
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Validation errors keep their detail since it is built from request input.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrIndexNotReady,
		domain.ErrReindexInProgress,
		domain.ErrSourceUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func resultToDiscount(res result.Result) Discount {
	d := recordToDiscount(res.Record())
	score := roundScore(res.Score())
	d.RelevanceScore = &score
	return d
}

func recordToDiscount(rec offer.Record) Discount {
	d := Discount{
		Name:     rec.Name(),
		Discount: rec.Discount(),
		Category: rec.Category().String(),
		HowToUse: rec.HowToUse(),
		Source:   rec.Source(),
	}
	if code, ok := rec.Code(); ok {
		d.Code = &code
	}
	if bonus, ok := rec.Bonus(); ok {
		d.Bonus = &bonus
	}
	return d
}

// roundScore rounds to 3 decimal places.
func roundScore(v float64) float64 {
	return math.Round(v*1000) / 1000
}
