// Package server exposes the copilot over a small JSON HTTP API.
//
//	GET  /health    liveness, no auth
//	POST /v1/plan   build the day's priority plan
//	POST /v1/query  route a free-text request
//
// The /v1 routes require an HS256 bearer token when a JWT secret is set.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/ShayCichocki/copilot/internal/copilot"
	"github.com/ShayCichocki/copilot/internal/planner"
	"github.com/ShayCichocki/copilot/internal/version"
	"github.com/ShayCichocki/copilot/pkg/models"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8080"

const maxBodyBytes = 1 << 20

// Runner executes copilot requests. *copilot.Copilot implements it.
type Runner interface {
	Run(ctx context.Context, req copilot.Request) (*copilot.State, error)
}

// Config configures a Server.
type Config struct {
	Addr string
	// JWTSecret signs bearer tokens. Empty disables auth.
	JWTSecret      []byte
	AllowedOrigins []string
	// Location interprets request dates. Nil means time.Local.
	Location *time.Location
	// Preferences seed each plan request; keys a client omits keep these
	// values. Nil means models.DefaultPreferences.
	Preferences *models.Preferences
	// Logger records response failures. Nil means no logging.
	Logger *copilot.DebugLogger
}

// Server serves the copilot API.
type Server struct {
	runner Runner
	cfg    Config
}

// New creates a server.
func New(runner Runner, cfg Config) (*Server, error) {
	if runner == nil {
		return nil, errors.New("server requires a runner")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Preferences == nil {
		prefs := models.DefaultPreferences()
		cfg.Preferences = &prefs
	}
	if cfg.Logger == nil {
		cfg.Logger = copilot.NopLogger()
	}
	return &Server{runner: runner, cfg: cfg}, nil
}

// Handler returns the API with CORS and auth applied.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /v1/plan", s.handlePlan)
	api.HandleFunc("POST /v1/query", s.handleQuery)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("/v1/", s.requireToken(s.cfg.JWTSecret, api))

	// Auth is a bearer header; credentialed CORS stays off.
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(mux)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// PlanRequest is the body of POST /v1/plan.
type PlanRequest struct {
	// Date is YYYY-MM-DD. Empty plans today.
	Date        string              `json:"date,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	// Preferences override the server's defaults key by key.
	Preferences *models.Preferences `json:"preferences,omitempty"`
}

// PlanResponse is the body returned by POST /v1/plan.
type PlanResponse struct {
	WorkflowID string               `json:"workflow_id"`
	Plan       *models.PriorityPlan `json:"priority_plan,omitempty"`
	Response   string               `json:"response"`
	ToolErrors []copilot.ToolError  `json:"tool_errors"`
}

// QueryRequest is the body of POST /v1/query.
type QueryRequest struct {
	Query     string `json:"query"`
	UserEmail string `json:"user_email,omitempty"`
	Date      string `json:"date,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Get()})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	prefs := *s.cfg.Preferences
	body := PlanRequest{Preferences: &prefs}
	if !s.decode(w, r, &body) {
		return
	}
	day, ok := s.parseDay(w, body.Date)
	if !ok {
		return
	}

	st, err := s.runner.Run(r.Context(), copilot.Request{
		UserEmail:   body.UserEmail,
		Today:       day,
		Preferences: body.Preferences,
		Workflow:    copilot.WorkflowPriorityPlan,
	})
	if err != nil {
		s.runError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PlanResponse{
		WorkflowID: st.WorkflowID,
		Plan:       st.Plan,
		Response:   st.Response,
		ToolErrors: st.ToolErrors,
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var body QueryRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Query == "" {
		s.writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	day, ok := s.parseDay(w, body.Date)
	if !ok {
		return
	}

	st, err := s.runner.Run(r.Context(), copilot.Request{Query: body.Query, UserEmail: body.UserEmail, Today: day})
	if err != nil {
		s.runError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

// parseDay returns the zero time for an empty date so the copilot's
// clock decides.
func (s *Server) parseDay(w http.ResponseWriter, date string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, true
	}
	day, err := time.ParseInLocation(models.DateLayout, date, s.cfg.Location)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

func (s *Server) runError(w http.ResponseWriter, err error) {
	switch {
	case planner.IsValidation(err):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decode reads a JSON body into v. An empty body leaves v unchanged.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return false
	}
	return true
}

// writeJSON encodes v before writing the header so an encoding failure
// can still be reported as a 500.
func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.cfg.Logger.Log("[server] encode %T response: %v", v, err)
		code = http.StatusInternalServerError
		data, _ = json.Marshal(errorBody{Error: "encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(data, '\n')); err != nil {
		s.cfg.Logger.Log("[server] write response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, errorBody{Error: msg})
}
