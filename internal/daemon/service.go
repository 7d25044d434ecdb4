// Package daemon hosts a ledger behind an HTTP/SSE API.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/cflow/internal/ledger"
	"github.com/theirongolddev/cflow/internal/logging"

	"github.com/shopspring/decimal"
)

const maxBodyBytes = 64 * 1024

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int

	// Ledger defaults to a fresh ledger.New().
	Ledger *ledger.Ledger
	Logger *slog.Logger
}

// Event is emitted for every accepted record.
type Event struct {
	ID          int64               `json:"id"`
	Type        string              `json:"type"`
	Timestamp   time.Time           `json:"timestamp"`
	Balance     decimal.Decimal     `json:"balance"`
	Transaction *ledger.Transaction `json:"transaction,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time       `json:"started_at"`
	Addr            string          `json:"addr"`
	Records         int             `json:"records"`
	Rejected        int64           `json:"rejected"`
	Balance         decimal.Decimal `json:"balance"`
	EventCount      int             `json:"event_count"`
	SubscriberCount int             `json:"subscriber_count"`
}

// Balance is served at /v1/balance.
type Balance struct {
	Balance decimal.Decimal `json:"balance"`
	Records int             `json:"records"`
	Totals  ledger.Totals   `json:"totals"`
}

type recordRequest struct {
	Amount    string `json:"amount"`
	Direction string `json:"direction"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	log *slog.Logger

	// mu serializes every ledger call along with the event state.
	mu          sync.Mutex
	ledger      *ledger.Ledger
	startedAt   time.Time
	rejected    int64
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Ledger == nil {
		cfg.Ledger = ledger.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Service{
		cfg:       cfg,
		log:       logger,
		ledger:    cfg.Ledger,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/balance", s.handleBalance)
	mux.HandleFunc("GET /v1/transactions", s.handleTransactions)
	mux.HandleFunc("POST /v1/transactions", s.handleRecord)
	mux.HandleFunc("GET /v1/series/{direction}", s.handleSeries)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return mux
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// Record applies one record to the hosted ledger and publishes an event.
func (s *Service) Record(amount string, dir ledger.Direction) (ledger.RecordResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.ledger.Record(amount, dir)
	if err != nil {
		s.rejected++
		return res, err
	}

	s.nextEventID++
	tx := res.Transaction
	s.appendEventLocked(Event{
		ID:          s.nextEventID,
		Type:        "record",
		Timestamp:   time.Now(),
		Balance:     res.Balance,
		Transaction: &tx,
	})
	return res, nil
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendEventLocked(ev)
}

// appendEventLocked stores ev in the ring and fans it out. Callers hold mu.
func (s *Service) appendEventLocked(ev Event) {
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		StartedAt:       s.startedAt,
		Addr:            s.cfg.Addr,
		Records:         s.ledger.Len(),
		Rejected:        s.rejected,
		Balance:         s.ledger.CurrentBalance(),
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleBalance(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	b := Balance{
		Balance: s.ledger.CurrentBalance(),
		Records: s.ledger.Len(),
		Totals:  s.ledger.Totals(),
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, b)
}

func (s *Service) handleTransactions(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	history := s.ledger.HistorySnapshot()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, history)
}

func (s *Service) handleSeries(w http.ResponseWriter, r *http.Request) {
	dir, err := ledger.ParseDirection(r.PathValue("direction"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}

	s.mu.Lock()
	series := s.ledger.SeriesSnapshot(dir)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, series)
}

func (s *Service) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	dir, err := ledger.ParseDirection(req.Direction)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := s.Record(req.Amount, dir)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) {
			s.log.Warn("rejected record", "amount", req.Amount, "direction", dir.String())
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.log.Error("record failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	s.log.Info("recorded",
		"seq", res.Transaction.Sequence,
		"direction", dir.String(),
		"amount", res.Transaction.Amount.String(),
		"balance", res.Balance.String(),
	)
	writeJSON(w, http.StatusCreated, res)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current balance immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Balance:   s.snapshotStatus().Balance,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
