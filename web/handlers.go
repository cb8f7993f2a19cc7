package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"
	"golang.org/x/text/message"

	"github.com/spektr-org/bugdash/engine"
	"github.com/spektr-org/bugdash/present"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Recompute triggers, used as a metric label.
const (
	triggerPage   = "page"
	triggerSSE    = "sse"
	triggerFilter = "filter"
	triggerReset  = "reset"
	triggerChart  = "chart"
)

// HandlerDeps are the collaborators of Handlers.
type HandlerDeps struct {
	Relation      engine.RecordView
	Sessions      sessions.Store
	Metrics       *Metrics
	Logger        *slog.Logger
	TopCategories int
	KPISeverities []string
	Palette       string
	Locale        string
}

// Handlers provides the dashboard HTTP handlers.
type Handlers struct {
	relation engine.RecordView
	sessions sessions.Store
	metrics  *Metrics
	logger   *slog.Logger
	palette  string
	printer  *message.Printer
	opts     []engine.Option
	defaults engine.Selection
}

// NewHandlers creates the handlers. The default selection is computed once
// from the relation.
func NewHandlers(deps HandlerDeps) (*Handlers, error) {
	defaults, err := engine.DefaultSelection(deps.Relation)
	if err != nil {
		return nil, fmt.Errorf("default selection: %w", err)
	}

	opts := []engine.Option{engine.WithLogger(deps.Logger)}
	if deps.TopCategories > 0 {
		opts = append(opts, engine.WithTopCategories(deps.TopCategories))
	}
	if len(deps.KPISeverities) > 0 {
		opts = append(opts, engine.WithKPISeverities(deps.KPISeverities...))
	}
	locale := deps.Locale
	if locale == "" {
		locale = "en"
	}

	return &Handlers{
		relation: deps.Relation,
		sessions: deps.Sessions,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		palette:  deps.Palette,
		printer:  present.NewPrinter(locale),
		opts:     opts,
		defaults: defaults,
	}, nil
}

// Page renders the full dashboard page.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	result, err := h.recompute(triggerPage, h.selectionOf(sess))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	view, err := buildPageView(result, h.palette, h.printer)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "page", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.saveSession(w, r, sess)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// DashboardSSE patches the dashboard for the session's current selection.
func (h *Handlers) DashboardSSE(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	sel := h.selectionOf(sess)
	h.saveSession(w, r, sess)

	sse := datastar.NewSSE(w, r)
	if err := h.patchDashboard(sse, triggerSSE, sel); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Filter stores the selection carried by the datastar signals and patches
// the dashboard.
func (h *Handlers) Filter(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals filterSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	requested := signals.selection()
	sel, err := engine.NormalizeSelection(h.relation, requested)
	if err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to normalize selection: %w", err))
		return
	}
	sess := h.session(r)
	if err := sess.setSelection(sel); err != nil {
		h.logger.Error("failed to store selection", sessionLogField, sess.id(), "error", err)
	}
	h.saveSession(w, r, sess)

	h.logger.Debug("filter changed", sessionLogField, sess.id(),
		"severities", sel.Severities, "domains", sel.Domains)

	sse := datastar.NewSSE(w, r)
	if !sameSelection(requested, sel) {
		// Values the relation does not hold are dropped; send the client the
		// cleaned-up signals.
		if err := sse.MarshalAndPatchSignals(signalsFor(sel)); err != nil {
			h.logger.Debug("failed to patch signals", "error", err)
			return
		}
	}
	if err := h.patchDashboard(sse, triggerFilter, sel); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Reset restores the default selection, pushing both the signals and the
// dashboard back to the initial state.
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	sess.clearSelection()
	h.saveSession(w, r, sess)

	sse := datastar.NewSSE(w, r)
	if err := sse.MarshalAndPatchSignals(signalsFor(h.defaults)); err != nil {
		h.logger.Debug("failed to patch signals", "error", err)
		return
	}
	if err := h.patchDashboard(sse, triggerReset, h.defaults); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Chart renders one dashboard chart as SVG for the session's selection.
func (h *Handlers) Chart(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(chi.URLParam(r, "file"), ".svg")
	if !ok {
		http.NotFound(w, r)
		return
	}

	sess := h.session(r)
	result, err := h.recompute(triggerChart, h.selectionOf(sess))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cfg, ok := present.DashboardChart(name, result, h.palette)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := present.RenderSVG(cfg, &buf); err != nil {
		h.logger.Error("chart render failed", "chart", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// Health reports that the relation is loaded.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"rows":   h.relation.Len(),
	})
}

// ============================================================================
// HELPERS
// ============================================================================

func (h *Handlers) selectionOf(sess *session) engine.Selection {
	if sel, ok := sess.selection(); ok {
		return sel
	}
	return h.defaults
}

func (h *Handlers) saveSession(w http.ResponseWriter, r *http.Request, sess *session) {
	if err := sess.save(w, r); err != nil {
		h.logger.Warn("failed to save session", sessionLogField, sess.id(), "error", err)
	}
}

// recompute runs the pipeline and records metrics.
func (h *Handlers) recompute(trigger string, sel engine.Selection) (*engine.Result, error) {
	start := time.Now()
	result, err := engine.Execute(h.relation, sel, h.opts...)
	h.metrics.recomputeDuration.WithLabelValues(trigger).Observe(time.Since(start).Seconds())
	if err != nil {
		h.metrics.recomputes.WithLabelValues(trigger, "error").Inc()
		h.logger.Error("recompute failed", "trigger", trigger, "error", err)
		return nil, err
	}
	h.metrics.recomputes.WithLabelValues(trigger, "ok").Inc()
	h.metrics.filteredRows.Set(float64(result.KPIs.TotalBugs))
	return result, nil
}

func (h *Handlers) patchDashboard(sse *datastar.ServerSentEventGenerator, trigger string, sel engine.Selection) error {
	result, err := h.recompute(trigger, sel)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "dashboard", buildDashboardView(result, h.palette, h.printer)); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return sse.PatchElements(buf.String())
}
