package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/kcal/internal/backup"
	"github.com/hpungsan/kcal/internal/config"
	"github.com/hpungsan/kcal/internal/errors"
	"github.com/hpungsan/kcal/internal/item"
	"github.com/hpungsan/kcal/internal/logger"
	"github.com/hpungsan/kcal/internal/tracker"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	tracker *tracker.Tracker
	baseDir string
	cfg     *config.Config
	log     *logger.Logger
}

// NewHandlers creates a new Handlers instance. baseDir and cfg locate and
// restrict export and import files.
func NewHandlers(tr *tracker.Tracker, baseDir string, cfg *config.Config, log *logger.Logger) *Handlers {
	if log == nil {
		log = logger.Nop()
	}
	return &Handlers{tracker: tr, baseDir: baseDir, cfg: cfg, log: log.With("component", "mcp")}
}

// AddRequest represents the arguments for meal_add and workout_add.
type AddRequest struct {
	Name     string `json:"name"`
	Calories *int   `json:"calories"`
}

// RemoveRequest represents the arguments for meal_remove and workout_remove.
type RemoveRequest struct {
	ID string `json:"id"`
}

// LimitRequest represents the arguments for limit_set.
type LimitRequest struct {
	Limit *int `json:"limit"`
}

// ExportRequest represents the arguments for day_export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// ImportRequest represents the arguments for day_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// AddResult is returned by the add tools.
type AddResult struct {
	Item    item.Item       `json:"item"`
	Summary tracker.Summary `json:"summary"`
}

// RemoveResult is returned by the remove tools.
type RemoveResult struct {
	ID      string          `json:"id"`
	Removed bool            `json:"removed"`
	Summary tracker.Summary `json:"summary"`
}

// HandleMealAdd handles the meal_add tool.
func (h *Handlers) HandleMealAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.add(ctx, req, item.KindMeal)
}

// HandleWorkoutAdd handles the workout_add tool.
func (h *Handlers) HandleWorkoutAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.add(ctx, req, item.KindWorkout)
}

// HandleMealRemove handles the meal_remove tool.
func (h *Handlers) HandleMealRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.remove(ctx, req, item.KindMeal)
}

// HandleWorkoutRemove handles the workout_remove tool.
func (h *Handlers) HandleWorkoutRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.remove(ctx, req, item.KindWorkout)
}

// HandleLimitSet handles the limit_set tool.
func (h *Handlers) HandleLimitSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LimitRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Limit == nil {
		return errorResult(errors.NewMissingField("limit")), nil
	}

	if err := h.tracker.SetLimit(ctx, *input.Limit); err != nil {
		return errorResult(err), nil
	}
	return successResult(h.tracker.Snapshot())
}

// HandleDayReset handles the day_reset tool.
func (h *Handlers) HandleDayReset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.tracker.Reset(ctx); err != nil {
		return errorResult(err), nil
	}
	return successResult(h.tracker.Snapshot())
}

// HandleDaySummary handles the day_summary tool.
func (h *Handlers) HandleDaySummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.tracker.Snapshot())
}

// HandleDayExport handles the day_export tool.
func (h *Handlers) HandleDayExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := backup.Export(ctx, h.tracker, h.baseDir, h.cfg, backup.ExportInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDayImport handles the day_import tool.
func (h *Handlers) HandleDayImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Path == "" {
		return errorResult(errors.NewMissingField("path")), nil
	}

	result, err := backup.Import(ctx, h.tracker, h.baseDir, h.cfg, backup.ImportInput{
		Path: input.Path,
		Mode: backup.ImportMode(input.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}

	h.log.Info("day imported", "path", input.Path, "imported", result.Imported, "skipped", result.Skipped)
	return successResult(result)
}

func (h *Handlers) add(ctx context.Context, req mcp.CallToolRequest, kind item.Kind) (*mcp.CallToolResult, error) {
	input, err := decode[AddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if strings.TrimSpace(input.Name) == "" {
		return errorResult(errors.NewMissingField("name")), nil
	}
	if input.Calories == nil {
		return errorResult(errors.NewMissingField("calories")), nil
	}

	it, err := item.New(kind, input.Name, *input.Calories)
	if err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}
	if kind == item.KindMeal {
		err = h.tracker.AddMeal(ctx, it)
	} else {
		err = h.tracker.AddWorkout(ctx, it)
	}
	if err != nil {
		return errorResult(err), nil
	}

	h.log.Debug("tool added item", "kind", kind, "id", it.ID)
	return successResult(AddResult{Item: it, Summary: h.tracker.Snapshot()})
}

func (h *Handlers) remove(ctx context.Context, req mcp.CallToolRequest, kind item.Kind) (*mcp.CallToolResult, error) {
	input, err := decode[RemoveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.ID == "" {
		return errorResult(errors.NewMissingField("id")), nil
	}

	removed, err := h.tracker.Remove(ctx, kind, input.ID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(RemoveResult{ID: input.ID, Removed: removed, Summary: h.tracker.Snapshot()})
}

// decode unmarshals MCP request arguments into a typed struct.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("invalid arguments: %w", err)
	}
	return result, nil
}

// errorResult creates an MCP error result carrying the error's code.
func errorResult(err error) *mcp.CallToolResult {
	kErr := errors.As(err)

	errorObj := map[string]any{
		"code":    kErr.Code,
		"message": kErr.Message,
		"status":  kErr.Status,
	}
	// Internal errors carry storage paths and SQL text; keep them out of tool output
	if kErr.Code == errors.ErrInternal {
		errorObj["message"] = "an internal error occurred"
	} else if kErr.Details != nil {
		errorObj["details"] = kErr.Details
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
