package conformance

import (
	"time"

	"costcheck/pkg/costapi"
)

// Options are the fixed inputs of a run. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	UserID      int     `json:"user_id"`
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Sum         float64 `json:"sum"`

	// TagDescription appends the run ID to the created entry's description.
	TagDescription bool `json:"tag_description"`
	// Cleanup deletes the created entry after the add check.
	Cleanup bool `json:"cleanup"`
	// Extended adds the user details check.
	Extended bool `json:"extended"`

	Timeout time.Duration `json:"timeout"`
}

func DefaultOptions() Options {
	return Options{
		UserID:      123123,
		Year:        2025,
		Month:       2,
		Description: "Test Item",
		Category:    costapi.CategoryFood,
		Sum:         50,
	}
}
