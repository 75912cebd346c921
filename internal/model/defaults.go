package model

// DefaultCategories is the preset catalog seeded on first run.
var DefaultCategories = []Category{
	{ID: "default-work", Name: "Work", Icon: "🏢", Color: "#FF6B6B", IsDefault: true, SortOrder: 1},
	{ID: "default-entertainment", Name: "Entertainment", Icon: "🎮", Color: "#4ECDC4", IsDefault: true, SortOrder: 2},
	{ID: "default-commute", Name: "Commute", Icon: "🚗", Color: "#FFE66D", IsDefault: true, SortOrder: 3},
	{ID: "default-rest", Name: "Rest", Icon: "😴", Color: "#95E1D3", IsDefault: true, SortOrder: 4},
	{ID: "default-meal", Name: "Meal", Icon: "🍔", Color: "#FF8B94", IsDefault: true, SortOrder: 5},
	{ID: "default-study", Name: "Study", Icon: "📚", Color: "#A8E6CF", IsDefault: true, SortOrder: 6},
	{ID: "default-exercise", Name: "Exercise", Icon: "💪", Color: "#FFDAC1", IsDefault: true, SortOrder: 7},
	{ID: "default-social", Name: "Social", Icon: "👥", Color: "#B4A7D6", IsDefault: true, SortOrder: 8},
}

// PresetColors is offered by the category forms.
var PresetColors = []string{
	"#FF6B6B", "#4ECDC4", "#FFE66D", "#95E1D3",
	"#FF8B94", "#A8E6CF", "#FFDAC1", "#B4A7D6",
	"#F8B500", "#6C5CE7", "#00D2D3", "#FD79A8",
}

// LongTaskThresholdOptions are the allowed reminder thresholds, in hours.
var LongTaskThresholdOptions = []int{1, 3, 6, 12, 24}

const (
	DefaultLongTaskThresholdHours = 6
	DefaultExportFormat           = "csv"
)
