package signaling

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"

	"pendu/internal/config"
)

// Server is the signaling relay's HTTP surface
type Server struct {
	server   *http.Server
	registry *Registry
	config   *config.Config
	logger   *slog.Logger
}

// Response is a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewServer creates the relay server
func NewServer(cfg *config.Config, registry *Registry, logger *slog.Logger) *Server {
	s := &Server{
		registry: registry,
		config:   cfg,
		logger:   logger,
	}

	router := httprouter.New()
	router.HandlerFunc(http.MethodPost, "/rooms", s.handleRegister)
	router.HandlerFunc(http.MethodGet, "/rooms/:code", s.handleResolve)
	router.HandlerFunc(http.MethodDelete, "/rooms/:code", s.handleUnregister)
	router.HandlerFunc(http.MethodGet, "/rooms/:code/qr.png", s.handleQR)
	router.HandlerFunc(http.MethodGet, "/healthz", s.handleHealth)

	s.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.middleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// middleware adds CORS headers and request logging
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// Start starts the relay
func (s *Server) Start() error {
	s.logger.Info("signaling relay starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the relay
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("signaling relay shutting down")
	return s.server.Shutdown(ctx)
}

type registerRequest struct {
	Address string `json:"address"`
}

// handleRegister handles POST /rooms
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Address == "" {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "address is required")
		return
	}

	room, err := s.registry.Register(req.Address)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "REGISTRATION_FAILED", "failed to register room")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(room)
}

// handleResolve handles GET /rooms/:code
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(httprouter.ParamsFromContext(r.Context()).ByName("code"))

	room, err := s.registry.Resolve(code)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "room not found")
		} else {
			s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(room)
}

// handleUnregister handles DELETE /rooms/:code
func (s *Server) handleUnregister(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(httprouter.ParamsFromContext(r.Context()).ByName("code"))
	s.registry.Unregister(code)
	w.WriteHeader(http.StatusNoContent)
}

// handleQR handles GET /rooms/:code/qr.png, serving a QR code guests can
// scan to get the room code
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(httprouter.ParamsFromContext(r.Context()).ByName("code"))

	if _, err := s.registry.Resolve(code); err != nil {
		s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "room not found")
		return
	}

	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "QR_FAILED", "failed to encode qr code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handleHealth handles GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"status": "ok", "rooms": s.registry.Count()})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
	})
}
