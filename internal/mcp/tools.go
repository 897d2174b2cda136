package mcp

import "github.com/mark3labs/mcp-go/mcp"

var mealAddToolDef = mcp.NewTool("meal_add",
	mcp.WithDescription("Log a meal. Raises the day's running total by its calories."),
	mcp.WithString("name", mcp.Required(), mcp.Description("What was eaten")),
	mcp.WithNumber("calories", mcp.Required(), mcp.Description("Calories in the meal (whole number)")),
)

var workoutAddToolDef = mcp.NewTool("workout_add",
	mcp.WithDescription("Log a workout. Lowers the day's running total by the calories burned."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Activity name")),
	mcp.WithNumber("calories", mcp.Required(), mcp.Description("Calories burned (whole number)")),
)

var mealRemoveToolDef = mcp.NewTool("meal_remove",
	mcp.WithDescription("Remove a logged meal by id. Unknown ids are ignored and reported as removed=false."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Meal id as returned by meal_add or day_summary")),
	mcp.WithDestructiveHintAnnotation(true),
)

var workoutRemoveToolDef = mcp.NewTool("workout_remove",
	mcp.WithDescription("Remove a logged workout by id. Unknown ids are ignored and reported as removed=false."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id as returned by workout_add or day_summary")),
	mcp.WithDestructiveHintAnnotation(true),
)

var limitSetToolDef = mcp.NewTool("limit_set",
	mcp.WithDescription("Set the daily calorie limit."),
	mcp.WithNumber("limit", mcp.Required(), mcp.Description("Daily calorie limit (whole number)")),
)

var dayResetToolDef = mcp.NewTool("day_reset",
	mcp.WithDescription("Clear every meal and workout and zero the running total. The limit is kept."),
	mcp.WithDestructiveHintAnnotation(true),
)

var daySummaryToolDef = mcp.NewTool("day_summary",
	mcp.WithDescription("Return the limit, running total, consumed, burned, remaining, progress, over-limit flag and both item lists."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var dayExportToolDef = mcp.NewTool("day_export",
	mcp.WithDescription("Write the limit and every meal and workout to a JSONL file. Defaults to ~/.kcal/exports/kcal-<timestamp>.jsonl."),
	mcp.WithString("path", mcp.Description("Output path; must sit directly in the exports directory or an allowed_paths entry")),
)

var dayImportToolDef = mcp.NewTool("day_import",
	mcp.WithDescription("Load a file written by day_export. replace resets the day first and changes nothing if any line is bad; merge adds items whose id is not already logged."),
	mcp.WithString("path", mcp.Required(), mcp.Description("JSONL file to read")),
	mcp.WithString("mode", mcp.Description("replace (default) or merge"), mcp.Enum("replace", "merge")),
	mcp.WithDestructiveHintAnnotation(true),
)
