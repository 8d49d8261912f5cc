package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/winkeep/winkeep/internal/models"
	"github.com/winkeep/winkeep/internal/reporter"
	"github.com/winkeep/winkeep/internal/tracker"
	"github.com/winkeep/winkeep/pkg/window"
)

const defaultEventLimit = 100

// TrackerStatus is the read-only view of a running tracker service
type TrackerStatus interface {
	IsRunning() bool
	State() tracker.State
	Title() string
	Interval() time.Duration
}

// EventHistory is the in-memory event log
type EventHistory interface {
	Latest() (tracker.Event, bool)
	Recent(n int) []tracker.Event
	Total() uint64
}

// GeometryRecord reads the persisted geometry
type GeometryRecord interface {
	Load() (window.Rect, bool, error)
	Path() string
}

// ReportGenerator builds journal reports. It is optional.
type ReportGenerator interface {
	GenerateReport(period string) (*models.Report, error)
}

type Handler struct {
	status        TrackerStatus
	history       EventHistory
	geometry      GeometryRecord
	reporter      ReportGenerator
	displayServer string
	logger        *slog.Logger
	now           func() time.Time
}

func NewHandler(status TrackerStatus, history EventHistory, geometry GeometryRecord) *Handler {
	return &Handler{
		status:   status,
		history:  history,
		geometry: geometry,
		logger:   slog.Default(),
		now:      time.Now,
	}
}

// WithReporter enables /api/report
func (h *Handler) WithReporter(r ReportGenerator) *Handler {
	h.reporter = r
	return h
}

// WithDisplayServer sets the backend name reported by /api/status
func (h *Handler) WithDisplayServer(name string) *Handler {
	h.displayServer = name
	return h
}

// WithLogger replaces the logger used for encoding failures
func (h *Handler) WithLogger(logger *slog.Logger) *Handler {
	h.logger = logger
	return h
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/status", h.handleStatus)
	mux.HandleFunc("/api/events", h.handleEvents)
	mux.HandleFunc("/api/events/latest", h.handleLatestEvent)
	mux.HandleFunc("/api/geometry", h.handleGeometry)
	mux.HandleFunc("/api/report", h.handleReport)

	mux.HandleFunc("/health", h.handleHealth)
}

// eventView is the JSON form of a tracker event
type eventView struct {
	Time    time.Time    `json:"time"`
	Kind    string       `json:"kind"`
	Title   string       `json:"title"`
	Rect    *window.Rect `json:"rect,omitempty"`
	Op      string       `json:"op,omitempty"`
	Error   string       `json:"error,omitempty"`
	Message string       `json:"message"`
}

func newEventView(e tracker.Event) eventView {
	v := eventView{
		Time:    e.Time,
		Kind:    string(e.Kind),
		Title:   e.Title,
		Op:      e.Op,
		Message: e.String(),
	}
	if e.HasRect() {
		r := e.Rect
		v.Rect = &r
	}
	if e.Err != nil {
		v.Error = e.Err.Error()
	}
	return v
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := map[string]interface{}{
		"running":        h.status.IsRunning(),
		"state":          h.status.State().String(),
		"title":          h.status.Title(),
		"poll_interval":  h.status.Interval().String(),
		"events_total":   h.history.Total(),
		"display_server": h.displayServer,
	}

	if latest, ok := h.history.Latest(); ok {
		status["latest_event"] = newEventView(latest)
	}

	respondJSON(w, h.logger, status)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultEventLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			http.Error(w, fmt.Sprintf("invalid limit: %q", limitStr), http.StatusBadRequest)
			return
		}
		limit = l
	}

	events := h.history.Recent(limit)
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, newEventView(e))
	}

	respondJSON(w, h.logger, views)
}

func (h *Handler) handleLatestEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	event, ok := h.history.Latest()
	if !ok {
		http.Error(w, "No events found", http.StatusNotFound)
		return
	}

	respondJSON(w, h.logger, newEventView(event))
}

func (h *Handler) handleGeometry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rect, ok, err := h.geometry.Load()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load geometry: %v", err), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "No geometry stored", http.StatusNotFound)
		return
	}

	respondJSON(w, h.logger, map[string]interface{}{
		"path":     h.geometry.Path(),
		"geometry": rect,
	})
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.reporter == nil {
		http.Error(w, "Journal is disabled", http.StatusServiceUnavailable)
		return
	}

	periodType := r.URL.Query().Get("period")
	if periodType == "" {
		periodType = "day"
	}

	report, err := h.reporter.GenerateReport(periodType)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, reporter.ErrInvalidPeriod) {
			status = http.StatusBadRequest
		} else {
			h.logger.Error("failed to generate report", "period", periodType, "error", err)
		}
		http.Error(w, fmt.Sprintf("Failed to generate report: %v", err), status)
		return
	}

	respondJSON(w, h.logger, report)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, map[string]string{
		"status": "healthy",
		"time":   h.now().Format(time.RFC3339),
	})
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("error encoding JSON", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
