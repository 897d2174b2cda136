package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/hpungsan/kcal/internal/errors"
	"github.com/hpungsan/kcal/internal/item"
	"github.com/hpungsan/kcal/internal/report"
	"github.com/hpungsan/kcal/internal/tracker"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	tracker  *tracker.Tracker
	display  *Display
	renderer *Renderer
}

// HandleDashboard handles GET /: the day's summary, lists and forms.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	mealFilter := r.URL.Query().Get("meal_filter")
	workoutFilter := r.URL.Query().Get("workout_filter")
	state := h.display.Snapshot()

	h.renderer.renderPage(w, r, "dashboard", DashboardPageData{
		PageData: PageData{
			Title:   "Today",
			Version: h.renderer.version,
			Nav:     "today",
		},
		DisplayState:  state,
		MealFilter:    mealFilter,
		WorkoutFilter: workoutFilter,
		ShownMeals:    tracker.FilterItems(state.Meals, mealFilter),
		ShownWorkouts: tracker.FilterItems(state.Workouts, workoutFilter),
	})
}

// HandleAdd handles POST /meals and POST /workouts.
func (h *Handlers) HandleAdd(w http.ResponseWriter, r *http.Request) {
	kind, err := item.ParseKind(strings.TrimPrefix(r.URL.Path, "/"))
	if err != nil {
		h.renderer.renderError(w, r, errors.NewNotFound(r.URL.Path))
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.renderer.renderError(w, r, errors.NewMissingField("name"))
		return
	}
	calories, err := parseIntField(r, "calories")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	it, err := item.New(kind, name, calories)
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}
	if kind == item.KindMeal {
		err = h.tracker.AddMeal(r.Context(), it)
	} else {
		err = h.tracker.AddWorkout(r.Context(), it)
	}
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.respondMutation(w, r, http.StatusCreated, map[string]any{"item": it})
}

// HandleRemove handles DELETE /{kind}/{id} and POST /{kind}/{id}/delete.
// Removing an unknown id succeeds with removed=false.
func (h *Handlers) HandleRemove(w http.ResponseWriter, r *http.Request) {
	kind, err := item.ParseKind(r.PathValue("kind"))
	if err != nil {
		h.renderer.renderError(w, r, errors.NewNotFound(r.URL.Path))
		return
	}
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewMissingField("id"))
		return
	}

	var removed bool
	if kind == item.KindMeal {
		removed, err = h.tracker.RemoveMeal(r.Context(), id)
	} else {
		removed, err = h.tracker.RemoveWorkout(r.Context(), id)
	}
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.respondMutation(w, r, http.StatusOK, map[string]any{
		"removed": removed,
		"id":      id,
	})
}

// HandleSetLimit handles POST /limit.
func (h *Handlers) HandleSetLimit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	limit, err := parseIntField(r, "limit")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if err := h.tracker.SetLimit(r.Context(), limit); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.respondMutation(w, r, http.StatusOK, map[string]any{"limit": limit})
}

// HandleReset handles POST /reset.
func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.Reset(r.Context()); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.respondMutation(w, r, http.StatusOK, map[string]any{"reset": true})
}

// HandleReport handles GET /report: the day as Markdown, rendered to HTML.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	md := report.Markdown(h.tracker.Snapshot())

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(md))
		return
	}

	h.renderer.renderPage(w, r, "report", ReportPageData{
		PageData: PageData{
			Title:   "Report",
			Version: h.renderer.version,
			Nav:     "report",
		},
		Markdown:     md,
		RenderedHTML: h.renderer.renderMarkdown(md),
	})
}

// HandleSummary handles GET /api/summary.
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, h.tracker.Snapshot())
}

// respondMutation finishes a state-changing request. HTMX clients are sent
// back to the dashboard via HX-Redirect, JSON clients get body, and plain
// form posts are redirected.
func (h *Handlers) respondMutation(w http.ResponseWriter, r *http.Request, status int, body map[string]any) {
	// HTMX request: redirect via HX-Redirect header
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}

	// JSON request
	if wantsJSON(r) {
		body["summary"] = h.tracker.Snapshot()
		renderJSON(w, status, body)
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// parseIntField reads a required integer form field.
func parseIntField(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return 0, errors.NewMissingField(name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewInvalidRequest(name + " must be a whole number")
	}
	return n, nil
}
