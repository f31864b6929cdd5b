package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/vigetlabs/slackfit/pkg/logger"
)

// ServerConfig contains HTTP intake configuration.
type ServerConfig struct {
	// Host - address to bind (default: "0.0.0.0").
	Host string

	// Port - port to listen on (default: 3000).
	Port int

	// ReadTimeout - maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout - maximum duration for writing the response.
	WriteTimeout time.Duration

	// EventTimeout - budget for processing one dispatched event.
	EventTimeout time.Duration
}

// DefaultServerConfig returns default intake configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         3000,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		EventTimeout: 30 * time.Second,
	}
}

// Address returns the server address string.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Server receives Slack Events API callbacks and slash commands over HTTP.
//
// Slack requires an acknowledgment within three seconds and redelivers on
// timeout, so event callbacks are acknowledged immediately and processed on
// a background goroutine. Redeliveries are harmless: duplicate check-ins
// are idempotent at the ledger.
type Server struct {
	config     ServerConfig
	events     *Handler
	whiteboard *WhiteboardHandler
	httpServer *http.Server
	logger     *logger.Logger
}

// NewServer creates the intake server.
func NewServer(config ServerConfig, events *Handler, whiteboard *WhiteboardHandler, log *logger.Logger) *Server {
	if config.Host == "" {
		config.Host = "0.0.0.0"
	}
	if config.Port == 0 {
		config.Port = 3000
	}
	if config.EventTimeout <= 0 {
		config.EventTimeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Default()
	}

	s := &Server{
		config:     config,
		events:     events,
		whiteboard: whiteboard,
		logger:     log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /slack/events", s.handleEvents)
	mux.HandleFunc("POST /slack/commands", s.handleCommand)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         config.Address(),
		Handler:      s.recoveryMiddleware(s.loggingMiddleware(mux)),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
	return s
}

// Start begins serving. Blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.logger.Info("slack intake listening",
		logger.String("address", s.config.Address()),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("slack intake: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// eventEnvelope is the Events API outer payload.
type eventEnvelope struct {
	Type      string          `json:"type"`
	Challenge string          `json:"challenge,omitempty"`
	Event     json.RawMessage `json:"event,omitempty"`
}

// handleEvents processes one Events API delivery.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var envelope eventEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	switch envelope.Type {
	case "url_verification":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"challenge": envelope.Challenge})

	case "event_callback":
		w.WriteHeader(http.StatusOK)
		go s.dispatch(NormalizeEvent(envelope.Event))

	default:
		w.WriteHeader(http.StatusOK)
	}
}

// dispatch runs one event with its own timeout, detached from the HTTP
// request that delivered it.
func (s *Server) dispatch(ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("event dispatch panic",
				logger.F("panic", rec),
				logger.String("stack", string(debug.Stack())),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.EventTimeout)
	defer cancel()

	if err := s.events.HandleEvent(ctx, ev); err != nil {
		s.logger.Error("event handling failed",
			logger.String("kind", string(ev.Kind)),
			logger.Err(err),
		)
	}
}

// handleCommand serves slash commands. Slack sends them form-encoded and
// renders the JSON response body back to the invoking user.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	cmd := r.PostFormValue("command")
	if cmd != "/whiteboard" {
		writeCommandReply(w, fmt.Sprintf("Unknown command: %s", cmd))
		return
	}

	text, err := s.whiteboard.Handle(r.Context())
	if err != nil {
		s.logger.Error("whiteboard command failed", logger.Err(err))
		writeCommandReply(w, "Something went wrong fetching the leaderboard. Try again in a minute.")
		return
	}
	writeCommandReply(w, text)
}

func writeCommandReply(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"response_type": "in_channel",
		"text":          text,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// recoveryMiddleware recovers from handler panics and returns 500.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered",
					logger.F("error", rec),
					logger.String("path", r.URL.Path),
					logger.String("stack", string(debug.Stack())),
				)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Latency(time.Since(start)),
		)
	})
}
