package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/companyanalyzer/internal/common"
	"github.com/dmitrijs2005/companyanalyzer/internal/logging"
	"github.com/dmitrijs2005/companyanalyzer/internal/timex"
	"golang.org/x/crypto/bcrypt"
)

const (
	memoMaxRunes      = 2000
	minPasswordLength = 6
	disclosureCount   = 23
)

// Server serves the backend API and the two provider fakes.
type Server struct {
	cfg     *Config
	log     logging.Logger
	clock   timex.Clock
	users   *users
	tokens  revocations
	lib     *library
	handler http.Handler
}

type Option func(*Server)

// WithClock fixes the server's notion of now.
func WithClock(c timex.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithBcryptCost lowers the hashing cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Server) { s.users = newUsers(cost) }
}

func NewServer(cfg *Config, log logging.Logger, opts ...Option) *Server {
	if log == nil {
		log = logging.Discard()
	}
	s := &Server{
		cfg:   cfg,
		log:   log,
		users: newUsers(bcrypt.DefaultCost),
		lib:   newLibrary(),
	}
	for _, o := range opts {
		o(s)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.Handle("GET /api/auth/verify", s.requireAuth(http.HandlerFunc(s.handleVerify)))
	mux.Handle("POST /api/auth/logout", s.requireAuth(http.HandlerFunc(s.handleLogout)))

	mux.HandleFunc("GET /api/companies", s.handleCompanies)
	mux.HandleFunc("GET /api/companies/{corpCode}", s.handleCompany)
	mux.HandleFunc("GET /api/companies/{corpCode}/disclosures", s.handleDisclosures)

	mux.Handle("GET /api/favorites", s.requireAuth(http.HandlerFunc(s.handleListFavorites)))
	mux.Handle("POST /api/favorites", s.requireAuth(http.HandlerFunc(s.handleAddFavorite)))
	mux.Handle("DELETE /api/favorites/{stockCode}", s.requireAuth(http.HandlerFunc(s.handleRemoveFavorite)))
	mux.Handle("GET /api/favorites/{stockCode}/memo", s.requireAuth(http.HandlerFunc(s.handleGetMemo)))
	mux.Handle("POST /api/favorites/{stockCode}/memo", s.requireAuth(http.HandlerFunc(s.handleSaveMemo)))

	mux.HandleFunc("GET /api/news/search", s.handleNews)

	mux.HandleFunc("GET /exchange", s.handleExchange)
	mux.HandleFunc("GET /stock", s.handleStock)

	s.handler = s.logRequests(mux)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// ExpireSessions rejects every token issued up to now, so the next
// authenticated call of any client gets a 401.
func (s *Server) ExpireSessions() {
	s.tokens.revokeIssuedBefore(s.clock.Now())
}

// Register creates an account directly, bypassing the signup endpoint.
func (s *Server) Register(email, password, name string) (int64, error) {
	u, err := s.users.register(email, password, name)
	if err != nil {
		return 0, err
	}
	return u.Code, nil
}

type ctxKey struct{}

func userFrom(ctx context.Context) *User {
	u, _ := ctx.Value(ctxKey{}).(*User)
	return u
}

type claimsKey struct{}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(h, common.BearerPrefix)
		if !ok || token == "" {
			s.writeError(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}

		now := s.clock.Now()
		claims, err := ParseToken(token, []byte(s.cfg.SecretKey), now)
		if err != nil || s.tokens.rejected(claims, now) {
			s.writeError(w, r, http.StatusUnauthorized, "session expired")
			return
		}
		code, err := claims.UserCode()
		if err != nil {
			s.writeError(w, r, http.StatusUnauthorized, "session expired")
			return
		}
		usr, ok := s.users.get(code)
		if !ok {
			s.writeError(w, r, http.StatusUnauthorized, "unknown user")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, usr)
		ctx = context.WithValue(ctx, claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.log.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", r.Header.Get(common.RequestIDHeaderName),
		)
	})
}

type errorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorBody{
		Status:  status,
		Error:   http.StatusText(status),
		Message: msg,
		Path:    r.URL.Path,
	})
}

func decodeJSON(r *http.Request, dest any) error {
	return json.NewDecoder(r.Body).Decode(dest)
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type authResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	UserCode  int64  `json:"userCode"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

func (s *Server) issue(w http.ResponseWriter, r *http.Request, usr *User) {
	token, err := GenerateToken(usr.Code, usr.Email, []byte(s.cfg.SecretKey), s.cfg.TokenTTL, s.clock.Now())
	if err != nil {
		s.log.Error(r.Context(), "sign token", "err", err)
		s.writeError(w, r, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		Token:     token,
		TokenType: "Bearer",
		UserCode:  usr.Code,
		Email:     usr.Email,
		Name:      usr.Name,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	usr, err := s.users.authenticate(req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	s.issue(w, r, usr)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	switch {
	case !strings.Contains(req.Email, "@"):
		s.writeError(w, r, http.StatusBadRequest, "Please enter a valid email address.")
		return
	case len(req.Password) < minPasswordLength:
		s.writeError(w, r, http.StatusBadRequest, "Password must be at least 6 characters.")
		return
	case strings.TrimSpace(req.Name) == "":
		s.writeError(w, r, http.StatusBadRequest, "Name is required.")
		return
	}

	usr, err := s.users.register(req.Email, req.Password, strings.TrimSpace(req.Name))
	if errors.Is(err, ErrUserExists) {
		s.writeError(w, r, http.StatusConflict, "This email is already registered.")
		return
	}
	if err != nil {
		s.log.Error(r.Context(), "register user", "err", err)
		s.writeError(w, r, http.StatusInternalServerError, "could not create account")
		return
	}
	s.issue(w, r, usr)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	usr := userFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "userCode": usr.Code, "email": usr.Email})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, _ := r.Context().Value(claimsKey{}).(*Claims)
	if claims != nil && claims.ExpiresAt != nil {
		s.tokens.revoke(claims.ID, claims.ExpiresAt.Time)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func intParam(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

type companyList struct {
	Companies     []company `json:"companies"`
	CurrentPage   int       `json:"currentPage"`
	PageSize      int       `json:"pageSize"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	page := max(intParam(r, "page", 0), 0)
	size := intParam(r, "size", 20)
	if size <= 0 {
		size = 20
	}

	all := searchCompanies(r.URL.Query().Get("keyword"), r.URL.Query().Get("indutyCode"))
	resp := companyList{
		Companies:     []company{},
		CurrentPage:   page,
		PageSize:      size,
		TotalElements: int64(len(all)),
		TotalPages:    (len(all) + size - 1) / size,
	}
	if from := page * size; from < len(all) {
		resp.Companies = all[from:min(from+size, len(all))]
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	c, ok := findCompany(r.PathValue("corpCode"))
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "Company not found.")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type disclosureList struct {
	Status     string       `json:"status"`
	Message    string       `json:"message"`
	PageNo     int          `json:"page_no,omitempty"`
	PageCount  int          `json:"page_count,omitempty"`
	TotalCount int          `json:"total_count,omitempty"`
	TotalPage  int          `json:"total_page,omitempty"`
	List       []disclosure `json:"list,omitempty"`
}

func (s *Server) handleDisclosures(w http.ResponseWriter, r *http.Request) {
	c, ok := findCompany(r.PathValue("corpCode"))
	if !ok {
		writeJSON(w, http.StatusOK, disclosureList{Status: "013", Message: "no data"})
		return
	}

	pageNo := max(intParam(r, "pageNo", 1), 1)
	pageCount := intParam(r, "pageCount", 10)
	if pageCount <= 0 {
		pageCount = 10
	}

	all := disclosuresFor(c, disclosureCount, timex.Day(s.clock.Now()))
	resp := disclosureList{
		Status:     "000",
		Message:    "normal",
		PageNo:     pageNo,
		PageCount:  pageCount,
		TotalCount: len(all),
		TotalPage:  (len(all) + pageCount - 1) / pageCount,
		List:       []disclosure{},
	}
	if from := (pageNo - 1) * pageCount; from < len(all) {
		resp.List = all[from:min(from+pageCount, len(all))]
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.lib.list(userFrom(r.Context()).Code))
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StockCode   string `json:"stockCode"`
		CompanyName string `json:"companyName"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	code := strings.TrimSpace(req.StockCode)
	if code == "" {
		s.writeError(w, r, http.StatusBadRequest, "Stock code is required.")
		return
	}

	fav, ok := s.lib.add(userFrom(r.Context()).Code, code, strings.TrimSpace(req.CompanyName), s.clock.Now())
	if !ok {
		s.writeError(w, r, http.StatusConflict, "Already in favorites.")
		return
	}
	writeJSON(w, http.StatusOK, fav)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if !s.lib.remove(userFrom(r.Context()).Code, r.PathValue("stockCode")) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Not in favorites."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Removed."})
}

func (s *Server) handleGetMemo(w http.ResponseWriter, r *http.Request) {
	user, code := userFrom(r.Context()).Code, r.PathValue("stockCode")
	if !s.lib.has(user, code) {
		s.writeError(w, r, http.StatusNotFound, "Not in favorites.")
		return
	}
	writeJSON(w, http.StatusOK, s.lib.memo(user, code))
}

func (s *Server) handleSaveMemo(w http.ResponseWriter, r *http.Request) {
	user, code := userFrom(r.Context()).Code, r.PathValue("stockCode")
	if !s.lib.has(user, code) {
		s.writeError(w, r, http.StatusNotFound, "Not in favorites.")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	if utf8.RuneCountInString(req.Content) > memoMaxRunes {
		s.writeError(w, r, http.StatusBadRequest, "Memo must be at most 2000 characters.")
		return
	}
	writeJSON(w, http.StatusOK, s.lib.saveMemo(user, code, req.Content, s.clock.Now()))
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		s.writeError(w, r, http.StatusBadRequest, "query is required")
		return
	}
	display := intParam(r, "display", 10)
	if display <= 0 || display > 100 {
		display = 10
	}
	start := max(intParam(r, "start", 1), 1)
	writeJSON(w, http.StatusOK, searchNews(query, display, start, r.URL.Query().Get("sort"), s.clock.Now()))
}
