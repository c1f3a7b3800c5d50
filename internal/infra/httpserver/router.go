package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appcomp "github.com/rivalradar/rivalradar/internal/application/competitors"
	appintel "github.com/rivalradar/rivalradar/internal/application/intel"
	appreports "github.com/rivalradar/rivalradar/internal/application/reports"
	domai "github.com/rivalradar/rivalradar/internal/domain/ai"
	domain "github.com/rivalradar/rivalradar/internal/domain/competitors"
	"github.com/rivalradar/rivalradar/internal/domain/insight"
	domreports "github.com/rivalradar/rivalradar/internal/domain/reports"
	"github.com/rivalradar/rivalradar/internal/infra/ai/prompt"
	"github.com/rivalradar/rivalradar/internal/middleware"
)

type Router struct {
	compSvc   *appcomp.Service
	intelSvc  *appintel.Service
	reportSvc *appreports.Service
}

// Options bundles the cross-cutting dependencies the router wires in.
type Options struct {
	APIKeys            map[string]string
	RateLimitCapacity  int
	RateLimitPerSecond int
	HealthCheckers     map[string]middleware.HealthChecker
}

func NewRouter(compSvc *appcomp.Service, intelSvc *appintel.Service, reportSvc *appreports.Service, opts Options) http.Handler {
	rt := &Router{compSvc: compSvc, intelSvc: intelSvc, reportSvc: reportSvc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(v1 chi.Router) {
		v1.Use(middleware.APIKeyAuth(opts.APIKeys))
		v1.Use(middleware.RateLimitMiddleware(opts.RateLimitCapacity, opts.RateLimitPerSecond))

		v1.Route("/competitors", func(c chi.Router) {
			c.Post("/", rt.wrap(rt.handleCreateCompetitor))
			c.Get("/", rt.wrap(rt.handleListCompetitors))
			c.Post("/search_companies", rt.wrap(rt.handleSearchCompanies))
			c.Post("/compare_companies", rt.wrap(rt.handleCompareCompanies))
			c.Post("/fetch_from_ai", rt.wrap(rt.handleFetchFromAI))
			c.Get("/market_overview", rt.wrap(rt.handleMarketOverview))
			c.Get("/{id}", rt.wrap(rt.handleGetCompetitor))
			c.Put("/{id}", rt.wrap(rt.handleUpdateCompetitor))
			c.Delete("/{id}", rt.wrap(rt.handleDeleteCompetitor))
			c.Post("/{id}/analyze", rt.wrap(rt.handleAnalyze))
			c.Get("/{id}/analyses", rt.wrap(rt.handleListAnalyses))
		})

		v1.Get("/analyses/{id}", rt.wrap(rt.handleGetAnalysis))

		v1.Route("/reports", func(rep chi.Router) {
			rep.Post("/", rt.wrap(rt.handleCreateReport))
			rep.Get("/", rt.wrap(rt.handleListReports))
			rep.Get("/dashboard_data", rt.wrap(rt.handleDashboardData))
			rep.Get("/{id}", rt.wrap(rt.handleGetReport))
			rep.Put("/{id}", rt.wrap(rt.handleUpdateReport))
			rep.Delete("/{id}", rt.wrap(rt.handleDeleteReport))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps domain errors to HTTP statuses so handlers can just return them.
func (rt *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var (
			vErr  *domain.ValidationError
			upErr *domai.UpstreamError
			exErr *insight.ExtractionError
			scErr *insight.SchemaError
		)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, "not found")
		case errors.As(err, &vErr):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.As(err, &upErr):
			switch upErr.Kind {
			case domai.KindTimeout:
				writeError(w, http.StatusGatewayTimeout, err.Error())
			case domai.KindQuota:
				writeError(w, http.StatusTooManyRequests, err.Error())
			default:
				writeError(w, http.StatusBadGateway, err.Error())
			}
		case errors.As(err, &exErr), errors.As(err, &scErr):
			writeError(w, http.StatusBadGateway, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func decodeBody(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "is not valid JSON"}
	}
	return nil
}

//
// competitors
//

// POST /v1/competitors
func (rt *Router) handleCreateCompetitor(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())

	var cmd appcomp.Command
	if err := decodeBody(req, &cmd); err != nil {
		return err
	}
	if err := middleware.ValidateWebsite(cmd.Website); err != nil {
		return &domain.ValidationError{Field: "website", Reason: err.Error()}
	}

	c, err := rt.compSvc.Create(req.Context(), user, cmd)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, c)
}

// GET /v1/competitors
func (rt *Router) handleListCompetitors(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())

	list, err := rt.compSvc.List(req.Context(), user)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Competitor{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/competitors/{id}
func (rt *Router) handleGetCompetitor(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())
	id := domain.CompetitorID(chi.URLParam(req, "id"))

	c, err := rt.compSvc.Get(req.Context(), user, id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

// PUT /v1/competitors/{id}
func (rt *Router) handleUpdateCompetitor(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())
	id := domain.CompetitorID(chi.URLParam(req, "id"))

	var cmd appcomp.Command
	if err := decodeBody(req, &cmd); err != nil {
		return err
	}
	if err := middleware.ValidateWebsite(cmd.Website); err != nil {
		return &domain.ValidationError{Field: "website", Reason: err.Error()}
	}

	c, err := rt.compSvc.Update(req.Context(), user, id, cmd)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

// DELETE /v1/competitors/{id}
func (rt *Router) handleDeleteCompetitor(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())
	id := domain.CompetitorID(chi.URLParam(req, "id"))

	if err := rt.compSvc.Delete(req.Context(), user, id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /v1/competitors/{id}/analyze
func (rt *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())
	id := domain.CompetitorID(chi.URLParam(req, "id"))

	middleware.IncrementAICalls()
	a, err := rt.compSvc.Analyze(req.Context(), user, id)
	if err != nil {
		middleware.IncrementAICallsFailed()
		return err
	}
	middleware.IncrementAnalyses()
	return writeJSON(w, http.StatusOK, a)
}

// GET /v1/competitors/{id}/analyses
func (rt *Router) handleListAnalyses(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())
	id := domain.CompetitorID(chi.URLParam(req, "id"))

	list, err := rt.compSvc.ListAnalyses(req.Context(), user, id)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Analysis{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/analyses/{id}
func (rt *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())
	id := domain.AnalysisID(chi.URLParam(req, "id"))

	a, err := rt.compSvc.GetAnalysis(req.Context(), user, id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, a)
}

// POST /v1/competitors/fetch_from_ai
// Body: {"company_name": "<name>"}
func (rt *Router) handleFetchFromAI(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())

	var body struct {
		CompanyName string `json:"company_name"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	name := middleware.SanitizeString(body.CompanyName)
	if err := middleware.ValidateCompanyName(name); err != nil {
		return &domain.ValidationError{Field: "company_name", Reason: err.Error()}
	}

	middleware.IncrementAICalls()
	c, err := rt.compSvc.FetchFromAI(req.Context(), user, name)
	if err != nil {
		middleware.IncrementAICallsFailed()
		return err
	}
	return writeJSON(w, http.StatusCreated, c)
}

// GET /v1/competitors/market_overview
func (rt *Router) handleMarketOverview(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())

	overview, err := rt.compSvc.MarketOverview(req.Context(), user)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, overview)
}

// POST /v1/competitors/search_companies
// Body: {"query": "<text>"}
func (rt *Router) handleSearchCompanies(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Query string `json:"query"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	query := middleware.SanitizeString(body.Query)
	if err := middleware.ValidateQuery(query); err != nil {
		return &domain.ValidationError{Field: "query", Reason: err.Error()}
	}

	middleware.IncrementAICalls()
	results, err := rt.intelSvc.SearchCompanies(req.Context(), query)
	if err != nil {
		middleware.IncrementAICallsFailed()
		return err
	}
	if results == nil {
		results = []insight.SearchResult{}
	}
	return writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// POST /v1/competitors/compare_companies
// Body: {"company1": {...}, "company2": {...}}
func (rt *Router) handleCompareCompanies(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Company1 prompt.Company `json:"company1"`
		Company2 prompt.Company `json:"company2"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateCompanyName(body.Company1.Name); err != nil {
		return &domain.ValidationError{Field: "company1", Reason: err.Error()}
	}
	if err := middleware.ValidateCompanyName(body.Company2.Name); err != nil {
		return &domain.ValidationError{Field: "company2", Reason: err.Error()}
	}

	middleware.IncrementAICalls()
	cmp, err := rt.intelSvc.CompareCompanies(req.Context(), body.Company1, body.Company2)
	if err != nil {
		middleware.IncrementAICallsFailed()
		return err
	}
	return writeJSON(w, http.StatusOK, cmp)
}

//
// reports
//

// POST /v1/reports
func (rt *Router) handleCreateReport(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())

	var cmd appreports.Command
	if err := decodeBody(req, &cmd); err != nil {
		return err
	}

	rep, err := rt.reportSvc.Create(req.Context(), user, cmd)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, rep)
}

// GET /v1/reports
func (rt *Router) handleListReports(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())

	list, err := rt.reportSvc.List(req.Context(), user)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domreports.Report{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/reports/{id}
func (rt *Router) handleGetReport(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())
	id := domreports.ReportID(chi.URLParam(req, "id"))

	rep, err := rt.reportSvc.Get(req.Context(), user, id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rep)
}

// PUT /v1/reports/{id}
func (rt *Router) handleUpdateReport(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())
	id := domreports.ReportID(chi.URLParam(req, "id"))

	var cmd appreports.Command
	if err := decodeBody(req, &cmd); err != nil {
		return err
	}

	rep, err := rt.reportSvc.Update(req.Context(), user, id, cmd)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rep)
}

// DELETE /v1/reports/{id}
func (rt *Router) handleDeleteReport(w http.ResponseWriter, req *http.Request) error {
	user := middleware.GetUserFromContext(req.Context())
	id := domreports.ReportID(chi.URLParam(req, "id"))

	if err := rt.reportSvc.Delete(req.Context(), user, id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/reports/dashboard_data
func (rt *Router) handleDashboardData(w http.ResponseWriter, req *http.Request) error {
	data, err := rt.reportSvc.DashboardData(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, data)
}
