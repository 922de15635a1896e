package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shadowstrike/options-client/pkg/models"
	"github.com/sirupsen/logrus"
)

const (
	sessionCookie = "session"
	brokerFee     = 0.65
)

// Server is an in-memory stand-in for the options backend, serving the same
// routes the client consumes.
type Server struct {
	store  *Store
	logger *logrus.Logger
	port   string
}

func NewServer(store *Store, logger *logrus.Logger, port string) *Server {
	return &Server{
		store:  store,
		logger: logger,
		port:   port,
	}
}

func (s *Server) Start() error {
	s.logger.Infof("Starting development backend on port %s", s.port)
	return http.ListenAndServe(":"+s.port, s.Handler())
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/register", s.handleRegister)
	mux.HandleFunc("/reset-password", s.handleResetPassword)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/market-data", s.handleMarketData)
	mux.HandleFunc("/api/top10", s.handleTop10)
	mux.HandleFunc("/api/scanner", s.handleScanner)
	mux.HandleFunc("/api/trade-scenario", s.handleTradeScenario)
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/update-color", s.handleUpdateColor)

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !s.decodePost(w, r, &creds) {
		return
	}

	user, ok := s.store.Authenticate(creds.Email, creds.Password)
	if !ok {
		s.writeJSON(w, http.StatusOK, models.StatusResponse{Error: "Invalid credentials"})
		return
	}
	s.startSession(w, user)
	s.writeJSON(w, http.StatusOK, models.StatusResponse{Message: "Logged in"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if !s.decodePost(w, r, &reg) {
		return
	}
	if reg.Email == "" || reg.Password == "" {
		s.writeJSON(w, http.StatusOK, models.StatusResponse{Error: "Email and password are required"})
		return
	}

	user, err := s.store.Register(reg)
	if err != nil {
		s.writeJSON(w, http.StatusOK, models.StatusResponse{Error: err.Error()})
		return
	}
	s.startSession(w, user)
	s.writeJSON(w, http.StatusOK, models.StatusResponse{Message: "Registered"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetRequest
	if !s.decodePost(w, r, &req) {
		return
	}
	if !s.store.HasUser(req.Email) {
		s.writeJSON(w, http.StatusOK, models.StatusResponse{Error: "Email not found"})
		return
	}
	s.logger.WithField("email", req.Email).Info("Password reset requested")
	s.writeJSON(w, http.StatusOK, models.StatusResponse{Message: "Password reset email sent"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if ck, err := r.Cookie(sessionCookie); err == nil {
		s.store.EndSession(ck.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	s.writeJSON(w, http.StatusOK, models.StatusResponse{Message: "Logged out"})
}

func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, models.MarketData{TopMovers: s.store.Quotes()})
}

func (s *Server) handleTop10(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.TopPicks(10))
}

func (s *Server) handleScanner(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		s.writeJSON(w, http.StatusOK, s.store.Scan(10))
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.Analysis(symbol))
}

func (s *Server) handleTradeScenario(w http.ResponseWriter, r *http.Request) {
	var req models.ScenarioRequest
	if !s.decodePost(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.Scenario(req.Symbol, 5))
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	user, ok := s.sessionUser(r)
	if !ok {
		s.writeJSON(w, http.StatusUnauthorized, models.StatusResponse{Error: "Unauthorized"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, s.store.Portfolio(user))

	case http.MethodPost:
		var pos models.Position
		if err := json.NewDecoder(r.Body).Decode(&pos); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if pos.Symbol == "" || pos.Contracts <= 0 {
			s.writeJSON(w, http.StatusBadRequest, models.StatusResponse{Error: "symbol and contracts are required"})
			return
		}

		s.store.AddTrade(user, pos)
		s.logger.WithFields(logrus.Fields{
			"user":      user,
			"symbol":    pos.Symbol,
			"contracts": pos.Contracts,
		}).Info("Trade added")
		s.writeJSON(w, http.StatusOK, models.StatusResponse{Message: "Trade added"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleUpdateColor(w http.ResponseWriter, r *http.Request) {
	user, ok := s.sessionUser(r)
	if !ok {
		s.writeJSON(w, http.StatusUnauthorized, models.StatusResponse{Error: "Unauthorized"})
		return
	}
	var req models.ColorUpdate
	if !s.decodePost(w, r, &req) {
		return
	}
	s.store.SetColor(user, req.Color)
	s.writeJSON(w, http.StatusOK, models.StatusResponse{Message: "Color updated"})
}

func (s *Server) decodePost(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) startSession(w http.ResponseWriter, user string) {
	token := uuid.NewString()
	s.store.StartSession(token, user)
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/", HttpOnly: true})
}

func (s *Server) sessionUser(r *http.Request) (string, bool) {
	ck, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	return s.store.SessionUser(ck.Value)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
	}
}
