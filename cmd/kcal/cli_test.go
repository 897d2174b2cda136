package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hpungsan/kcal/internal/config"
	"github.com/hpungsan/kcal/internal/db"
)

// testApp wires a CLI app to a temporary database and captures its output.
type testApp struct {
	t       *testing.T
	baseDir string
	store   *db.Store
	cfg     *config.Config
	out     bytes.Buffer
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	return &testApp{t: t, baseDir: t.TempDir(), store: db.NewStore(database, cfg.DefaultLimit), cfg: cfg}
}

// run executes one command line and returns its stdout.
func (a *testApp) run(args ...string) (string, error) {
	a.t.Helper()
	a.out.Reset()
	app := newCLIApp(a.baseDir, a.store, a.cfg, nil)
	app.Writer = &a.out
	err := app.Run(append([]string{"kcal"}, args...))
	return a.out.String(), err
}

// mustRunJSON executes a command that must succeed and decodes its JSON output.
func (a *testApp) mustRunJSON(args ...string) map[string]any {
	a.t.Helper()
	out, err := a.run(args...)
	if err != nil {
		a.t.Fatalf("%v failed: %v", args, err)
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		a.t.Fatalf("failed to parse output of %v: %v\n%s", args, err, out)
	}
	return result
}

func summaryTotal(t *testing.T, result map[string]any) float64 {
	t.Helper()
	summary, ok := result["summary"].(map[string]any)
	if !ok {
		t.Fatalf("no summary in output: %v", result)
	}
	return summary["total"].(float64)
}

func TestParseIntArg(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    int
		expectError string
	}{
		{name: "positive", input: "500", expected: 500},
		{name: "padded", input: " 42 ", expected: 42},
		{name: "negative", input: "-50", expected: -50},
		{name: "empty", input: "", expectError: "calories is required"},
		{name: "not a number", input: "lots", expectError: "calories must be a whole number"},
		{name: "fractional", input: "12.5", expectError: "calories must be a whole number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseIntArg("calories", tt.input)
			if tt.expectError != "" {
				if err == nil || !strings.Contains(err.Error(), tt.expectError) {
					t.Errorf("expected error containing %q, got %v", tt.expectError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"kcal"}, false},
		{[]string{"kcal", "meal", "add"}, true},
		{[]string{"kcal", "serve"}, true},
		{[]string{"kcal", "--help"}, true},
		{[]string{"kcal", "-v"}, true},
		{[]string{"kcal", "bogus"}, false},
	}

	for _, tt := range tests {
		if got := isCLIMode(tt.args); got != tt.want {
			t.Errorf("isCLIMode(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

// TestCLIWorkedExample runs the add/add/remove sequence across separate
// invocations sharing one database.
func TestCLIWorkedExample(t *testing.T) {
	a := setupTestApp(t)

	lunch := a.mustRunJSON("meal", "add", "--name", "Lunch", "--calories", "500")
	if got := summaryTotal(t, lunch); got != 500 {
		t.Errorf("total after lunch = %v, want 500", got)
	}
	lunchID := lunch["item"].(map[string]any)["id"].(string)

	run := a.mustRunJSON("workout", "add", "-n", "Run", "-c", "200")
	if got := summaryTotal(t, run); got != 300 {
		t.Errorf("total after run = %v, want 300", got)
	}

	removed := a.mustRunJSON("meal", "rm", lunchID)
	if removed["removed"] != true {
		t.Errorf("removed = %v, want true", removed["removed"])
	}
	if got := summaryTotal(t, removed); got != -200 {
		t.Errorf("total after removing lunch = %v, want -200", got)
	}
}

func TestCLIRemove_UnknownIDIsNoop(t *testing.T) {
	a := setupTestApp(t)
	a.mustRunJSON("meal", "add", "--name", "Toast", "--calories", "150")

	result := a.mustRunJSON("meal", "rm", "does-not-exist")

	if result["removed"] != false {
		t.Errorf("removed = %v, want false", result["removed"])
	}
	if got := summaryTotal(t, result); got != 150 {
		t.Errorf("total = %v, want 150", got)
	}
}

func TestCLIAdd_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing name", []string{"meal", "add", "--calories", "100"}, "[INVALID_REQUEST] name is required"},
		{"missing calories", []string{"workout", "add", "--name", "Walk"}, "[INVALID_REQUEST] calories is required"},
		{"bad calories", []string{"meal", "add", "--name", "Pie", "--calories", "many"}, "[INVALID_REQUEST] calories must be a whole number"},
		{"missing id", []string{"meal", "rm"}, "[INVALID_REQUEST] id is required"},
		{"missing limit", []string{"limit"}, "[INVALID_REQUEST] limit is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := setupTestApp(t)
			_, err := a.run(tt.args...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestCLILimit_OverLimit(t *testing.T) {
	a := setupTestApp(t)

	limit := a.mustRunJSON("limit", "2000")
	if limit["limit"] != float64(2000) {
		t.Errorf("limit = %v, want 2000", limit["limit"])
	}

	a.mustRunJSON("meal", "add", "--name", "Feast", "--calories", "2500")

	summary := a.mustRunJSON("list")
	if summary["remaining"] != float64(-500) {
		t.Errorf("remaining = %v, want -500", summary["remaining"])
	}
	if summary["over_limit"] != true {
		t.Errorf("over_limit = %v, want true", summary["over_limit"])
	}
}

func TestCLIReset_KeepsLimit(t *testing.T) {
	a := setupTestApp(t)
	a.mustRunJSON("limit", "1800")
	a.mustRunJSON("meal", "add", "--name", "Pizza", "--calories", "900")
	a.mustRunJSON("workout", "add", "--name", "Swim", "--calories", "400")

	result := a.mustRunJSON("reset")

	if result["total"] != float64(0) {
		t.Errorf("total = %v, want 0", result["total"])
	}
	if result["limit"] != float64(1800) {
		t.Errorf("limit = %v, want 1800", result["limit"])
	}
	if meals := result["meals"].([]any); len(meals) != 0 {
		t.Errorf("meals = %v, want empty", meals)
	}
}

func TestCLIList_KindAndFilter(t *testing.T) {
	a := setupTestApp(t)
	a.mustRunJSON("meal", "add", "--name", "Chicken Salad", "--calories", "450")
	a.mustRunJSON("meal", "add", "--name", "Rice", "--calories", "200")
	a.mustRunJSON("workout", "add", "--name", "Salsa dancing", "--calories", "300")

	result := a.mustRunJSON("list", "--kind", "meals", "--filter", "sal")

	if result["kind"] != "meal" {
		t.Errorf("kind = %v, want meal", result["kind"])
	}
	items := result["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if name := items[0].(map[string]any)["name"]; name != "Chicken Salad" {
		t.Errorf("name = %v, want Chicken Salad", name)
	}

	if _, err := a.run("list", "--filter", "sal"); err == nil {
		t.Error("expected --filter without --kind to fail")
	}
	if _, err := a.run("list", "--kind", "snack"); err == nil {
		t.Error("expected unknown kind to fail")
	}
}

func TestCLIReport(t *testing.T) {
	a := setupTestApp(t)
	a.mustRunJSON("meal", "add", "--name", "Oatmeal", "--calories", "350")

	out, err := a.run("report")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.HasPrefix(out, "# Calorie report") {
		t.Errorf("expected markdown heading, got:\n%s", out)
	}
	if !strings.Contains(out, "- Oatmeal: 350 kcal") {
		t.Errorf("expected meal line, got:\n%s", out)
	}
}

func TestCLIStatus(t *testing.T) {
	a := setupTestApp(t)
	a.mustRunJSON("meal", "add", "--name", "Bagel", "--calories", "300")

	out, err := a.run("status", "--width", "20")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	for _, want := range []string{"Remaining", "1700", "Bagel", "15%"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in status output:\n%s", want, out)
		}
	}
}

func TestCLIExportImport(t *testing.T) {
	a := setupTestApp(t)
	a.mustRunJSON("limit", "1900")
	a.mustRunJSON("meal", "add", "--name", "Lunch", "--calories", "500")
	a.mustRunJSON("workout", "add", "--name", "Run", "--calories", "200")

	exported := a.mustRunJSON("export")
	if exported["count"] != float64(2) {
		t.Errorf("count = %v, want 2", exported["count"])
	}
	path := exported["path"].(string)

	a.mustRunJSON("reset")
	a.mustRunJSON("limit", "2500")

	imported := a.mustRunJSON("import", "--path", path)
	if imported["imported"] != float64(2) {
		t.Errorf("imported = %v, want 2", imported["imported"])
	}

	summary := a.mustRunJSON("list")
	if summary["total"] != float64(300) {
		t.Errorf("total = %v, want 300", summary["total"])
	}
	if summary["limit"] != float64(1900) {
		t.Errorf("limit = %v, want 1900 from export", summary["limit"])
	}

	if _, err := a.run("import", "--path", "/etc/passwd.jsonl"); err == nil {
		t.Error("expected import outside exports dir to fail")
	}
}
