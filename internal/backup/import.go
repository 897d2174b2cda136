package backup

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hpungsan/kcal/internal/config"
	"github.com/hpungsan/kcal/internal/errors"
	"github.com/hpungsan/kcal/internal/item"
	"github.com/hpungsan/kcal/internal/tracker"
)

// ImportMode controls how an import combines with the current day.
type ImportMode string

const (
	ImportModeReplace ImportMode = "replace" // reset the day, then load the file (atomic on parse errors)
	ImportModeMerge   ImportMode = "merge"   // add items whose id is not already logged
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: replace
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError describes a line that could not be imported.
type ImportError struct {
	Line    int    `json:"line"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// record is one decoded line: either the header or an item.
type record struct {
	KcalExport bool `json:"_kcal_export"`
	Limit      *int `json:"limit,omitempty"`
	item.Item
}

type parsedFile struct {
	limit *int
	items []item.Item
	lines []int
}

// Import loads a file written by Export into tr. Items go through the
// tracker's add operations, so the running total is rebuilt incrementally.
func Import(ctx context.Context, tr *tracker.Tracker, baseDir string, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Mode == "" {
		input.Mode = ImportModeReplace
	}
	if input.Mode != ImportModeReplace && input.Mode != ImportModeMerge {
		return nil, errors.NewInvalidRequest("mode must be one of: replace, merge")
	}

	if err := ValidatePath(input.Path, PathCheckRead, baseDir, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrInvalidRequest) {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	parsed, parseErrors, err := parseExportFile(file)
	if err != nil {
		return nil, err
	}

	out := &ImportOutput{Errors: append([]ImportError{}, parseErrors...)}

	switch input.Mode {
	case ImportModeReplace:
		// Leave the day untouched when any line is bad
		if len(parseErrors) > 0 {
			return out, nil
		}
		if err := tr.Reset(ctx); err != nil {
			return nil, err
		}
		if parsed.limit != nil {
			if err := tr.SetLimit(ctx, *parsed.limit); err != nil {
				return nil, err
			}
		}
		for _, it := range parsed.items {
			if err := addItem(ctx, tr, it); err != nil {
				return nil, err
			}
			out.Imported++
		}

	case ImportModeMerge:
		existing := make(map[string]bool)
		for _, it := range tr.Meals() {
			existing[it.ID] = true
		}
		for _, it := range tr.Workouts() {
			existing[it.ID] = true
		}
		for i, it := range parsed.items {
			if existing[it.ID] {
				out.Skipped++
				out.Errors = append(out.Errors, ImportError{
					Line:    parsed.lines[i],
					ID:      it.ID,
					Code:    "DUPLICATE",
					Message: "item already logged",
				})
				continue
			}
			if err := addItem(ctx, tr, it); err != nil {
				return nil, err
			}
			existing[it.ID] = true
			out.Imported++
		}
	}

	return out, nil
}

func addItem(ctx context.Context, tr *tracker.Tracker, it item.Item) error {
	if it.Kind == item.KindWorkout {
		return tr.AddWorkout(ctx, it)
	}
	return tr.AddMeal(ctx, it)
}

// parseExportFile decodes every line of r. Bad lines and repeated ids are
// reported as ImportErrors; only a read failure returns an error.
func parseExportFile(r io.Reader) (*parsedFile, []ImportError, error) {
	parsed := &parsedFile{}
	var parseErrors []ImportError
	seen := make(map[string]int)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		if rec.KcalExport {
			parsed.limit = rec.Limit
			continue
		}

		it := rec.Item
		kind, err := item.ParseKind(string(it.Kind))
		switch {
		case it.ID == "":
			parseErrors = append(parseErrors, ImportError{Line: lineNum, Code: "INVALID_RECORD", Message: "missing id field"})
			continue
		case err != nil:
			parseErrors = append(parseErrors, ImportError{Line: lineNum, ID: it.ID, Code: "INVALID_RECORD", Message: err.Error()})
			continue
		case strings.TrimSpace(it.Name) == "":
			parseErrors = append(parseErrors, ImportError{Line: lineNum, ID: it.ID, Code: "INVALID_RECORD", Message: "missing name field"})
			continue
		}
		it.Kind = kind

		if first, ok := seen[it.ID]; ok {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				ID:      it.ID,
				Code:    "DUPLICATE",
				Message: fmt.Sprintf("id repeats line %d", first),
			})
			continue
		}
		seen[it.ID] = lineNum

		parsed.items = append(parsed.items, it)
		parsed.lines = append(parsed.lines, lineNum)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}
	return parsed, parseErrors, nil
}
