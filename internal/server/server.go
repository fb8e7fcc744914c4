// Package server exposes the services over HTTP on the goa runtime muxer.
package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	goahttp "goa.design/goa/v3/http"
	httpmdlwr "goa.design/goa/v3/http/middleware"
	"go.uber.org/zap"

	"creatorsite/internal/config"
	"creatorsite/internal/domain"
	"creatorsite/internal/leads"
	"creatorsite/internal/metrics"
	"creatorsite/internal/prompts"
	"creatorsite/internal/services"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth        *services.AuthService
	Leads       *services.LeadService
	Emails      *services.EmailService
	Contact     *services.ContactService
	BrandAssets *services.BrandAssetService
	Prompts     *services.PromptService
	Health      *services.HealthService
}

// Server mounts every route on a goa muxer.
type Server struct {
	svc    Services
	mux    goahttp.Muxer
	logger *zap.Logger
	onErr  func(context.Context, http.ResponseWriter, error)
	routes []string
}

// New creates the server and mounts its routes.
func New(svc Services, logger *zap.Logger) *Server {
	logger = logger.Named("http")
	s := &Server{
		svc:    svc,
		mux:    goahttp.NewMuxer(),
		logger: logger,
		onErr:  errorHandler(logger),
	}
	s.mount()
	return s
}

// Handler returns the full middleware chain:
// Security -> CORS -> RequestID -> Logging -> Prometheus -> routes.
func (s *Server) Handler(cfg *config.Config) http.Handler {
	metricsHandler := promhttp.Handler()
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			metricsHandler.ServeHTTP(w, r)
			return
		}
		s.mux.ServeHTTP(w, r)
	})

	var h http.Handler = root
	h = metrics.PrometheusMiddleware(h)
	h = httpmdlwr.PopulateRequestContext()(h)
	h = requestLogging(s.logger)(h)
	h = httpmdlwr.RequestID(httpmdlwr.UseXRequestIDHeaderOption(true))(h)
	h = setupCORS(h, cfg)
	h = setupSecurityHeaders(h, cfg)
	return h
}

// Routes lists the mounted routes as "METHOD /pattern".
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) mount() {
	public := func(method, pattern string, h handlerFunc) {
		s.routes = append(s.routes, method+" "+pattern)
		s.mux.Handle(method, pattern, metrics.Route(pattern, s.wrap(h)).ServeHTTP)
	}
	private := func(method, pattern string, h handlerFunc) {
		s.routes = append(s.routes, method+" "+pattern)
		s.mux.Handle(method, pattern, metrics.Route(pattern, s.requireAuth(s.wrap(h))).ServeHTTP)
	}

	public("GET", "/health", s.health)
	public("POST", "/api/v1/auth/login", s.login)
	public("POST", "/api/v1/contact/submit", s.submitContact)

	private("POST", "/api/v1/auth/logout", s.logout)
	private("GET", "/api/v1/auth/me", s.me)

	private("GET", "/api/v1/leads", s.listLeads)
	private("POST", "/api/v1/leads", s.createLead)
	private("GET", "/api/v1/leads/stats", s.leadStats)
	private("POST", "/api/v1/leads/import/preview", s.previewImport)
	private("POST", "/api/v1/leads/import", s.importLeads)
	private("GET", "/api/v1/leads/{id}", s.getLead)
	private("PATCH", "/api/v1/leads/{id}", s.updateLead)
	private("DELETE", "/api/v1/leads/{id}", s.deleteLead)
	private("GET", "/api/v1/leads/{id}/emails", s.listEmails)

	private("POST", "/api/v1/emails", s.createEmail)
	private("PATCH", "/api/v1/emails/{id}", s.updateEmail)
	private("DELETE", "/api/v1/emails/{id}", s.deleteEmail)

	private("GET", "/api/v1/contact", s.listContact)

	private("GET", "/api/v1/brand-assets", s.listBrandAssets)
	private("POST", "/api/v1/brand-assets", s.createBrandAsset)
	private("DELETE", "/api/v1/brand-assets/{id}", s.deleteBrandAsset)

	private("POST", "/api/v1/prompts/{kind}", s.renderPrompt)
}

// handlerFunc returns the response status and body, or an error.
type handlerFunc func(r *http.Request) (int, any, error)

func (s *Server) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), goahttp.AcceptTypeKey, r.Header.Get("Accept"))
		r = r.WithContext(ctx)

		status, res, err := h(r)
		if err != nil {
			s.onErr(ctx, w, err)
			return
		}
		if err := encode(ctx, w, status, res); err != nil {
			s.logger.Error("Failed to encode response", zap.String("path", r.URL.Path), zap.Error(err))
		}
	}
}

func (s *Server) health(r *http.Request) (int, any, error) {
	return http.StatusOK, s.svc.Health.Check(r.Context()), nil
}

func (s *Server) login(r *http.Request) (int, any, error) {
	var p services.LoginPayload
	if err := decode(r, &p, true); err != nil {
		return 0, nil, err
	}
	res, err := s.svc.Auth.Login(r.Context(), &p)
	return http.StatusOK, res, err
}

func (s *Server) logout(r *http.Request) (int, any, error) {
	res, err := s.svc.Auth.Logout(r.Context())
	return http.StatusOK, res, err
}

func (s *Server) me(r *http.Request) (int, any, error) {
	res, err := s.svc.Auth.Me(r.Context())
	return http.StatusOK, res, err
}

func (s *Server) submitContact(r *http.Request) (int, any, error) {
	var p leads.ContactInput
	if err := decode(r, &p, true); err != nil {
		return 0, nil, err
	}
	res, err := s.svc.Contact.Submit(r.Context(), &p)
	return http.StatusCreated, res, err
}

func (s *Server) listContact(r *http.Request) (int, any, error) {
	res, err := s.svc.Contact.List(r.Context())
	return http.StatusOK, res, err
}

func (s *Server) listLeads(r *http.Request) (int, any, error) {
	q := r.URL.Query()
	res, err := s.svc.Leads.List(r.Context(), &services.ListLeadsPayload{
		Status: q.Get("status"),
		Search: q.Get("search"),
	})
	return http.StatusOK, res, err
}

func (s *Server) createLead(r *http.Request) (int, any, error) {
	fields := map[string]any{}
	if err := decode(r, &fields, true); err != nil {
		return 0, nil, err
	}
	q := r.URL.Query()
	res, err := s.svc.Leads.Create(r.Context(), &services.CreateLeadPayload{
		Source:          domain.LeadSource(q.Get("source")),
		DefaultCategory: q.Get("default_category"),
		Fields:          fields,
	})
	return http.StatusCreated, res, err
}

func (s *Server) leadStats(r *http.Request) (int, any, error) {
	res, err := s.svc.Leads.Stats(r.Context())
	return http.StatusOK, res, err
}

func (s *Server) previewImport(r *http.Request) (int, any, error) {
	var p services.ImportPayload
	if err := decode(r, &p, true); err != nil {
		return 0, nil, err
	}
	res, err := s.svc.Leads.Preview(r.Context(), &p)
	return http.StatusOK, res, err
}

func (s *Server) importLeads(r *http.Request) (int, any, error) {
	var p services.ImportPayload
	if err := decode(r, &p, true); err != nil {
		return 0, nil, err
	}
	res, err := s.svc.Leads.Import(r.Context(), &p)
	return http.StatusCreated, res, err
}

func (s *Server) getLead(r *http.Request) (int, any, error) {
	res, err := s.svc.Leads.Get(r.Context(), s.mux.Vars(r)["id"])
	return http.StatusOK, res, err
}

func (s *Server) updateLead(r *http.Request) (int, any, error) {
	var p domain.LeadPatch
	if err := decode(r, &p, false); err != nil {
		return 0, nil, err
	}
	res, err := s.svc.Leads.Update(r.Context(), s.mux.Vars(r)["id"], &p)
	return http.StatusOK, res, err
}

func (s *Server) deleteLead(r *http.Request) (int, any, error) {
	res, err := s.svc.Leads.Delete(r.Context(), s.mux.Vars(r)["id"])
	return http.StatusOK, res, err
}

func (s *Server) listEmails(r *http.Request) (int, any, error) {
	res, err := s.svc.Emails.ListByLead(r.Context(), s.mux.Vars(r)["id"])
	return http.StatusOK, res, err
}

func (s *Server) createEmail(r *http.Request) (int, any, error) {
	var p leads.EmailInput
	if err := decode(r, &p, true); err != nil {
		return 0, nil, err
	}
	res, err := s.svc.Emails.Create(r.Context(), &p)
	return http.StatusCreated, res, err
}

func (s *Server) updateEmail(r *http.Request) (int, any, error) {
	var p leads.EmailUpdate
	if err := decode(r, &p, false); err != nil {
		return 0, nil, err
	}
	res, err := s.svc.Emails.Update(r.Context(), s.mux.Vars(r)["id"], &p)
	return http.StatusOK, res, err
}

func (s *Server) deleteEmail(r *http.Request) (int, any, error) {
	res, err := s.svc.Emails.Delete(r.Context(), s.mux.Vars(r)["id"])
	return http.StatusOK, res, err
}

func (s *Server) listBrandAssets(r *http.Request) (int, any, error) {
	res, err := s.svc.BrandAssets.List(r.Context())
	return http.StatusOK, res, err
}

func (s *Server) createBrandAsset(r *http.Request) (int, any, error) {
	var p services.CreateBrandAssetPayload
	if err := decode(r, &p, true); err != nil {
		return 0, nil, err
	}
	res, err := s.svc.BrandAssets.Create(r.Context(), &p)
	return http.StatusCreated, res, err
}

func (s *Server) deleteBrandAsset(r *http.Request) (int, any, error) {
	res, err := s.svc.BrandAssets.Delete(r.Context(), s.mux.Vars(r)["id"])
	return http.StatusOK, res, err
}

func (s *Server) renderPrompt(r *http.Request) (int, any, error) {
	var p services.PromptPayload
	if err := decode(r, &p, false); err != nil {
		return 0, nil, err
	}
	kind := prompts.Kind(strings.ToLower(s.mux.Vars(r)["kind"]))
	res, err := s.svc.Prompts.Render(r.Context(), kind, &p)
	return http.StatusOK, res, err
}
