// Package progress tracks playback positions so users can resume media.
package progress

import "time"

// Record is a user's position within one piece of content.
type Record struct {
	ContentID       int64     `json:"contentId"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	PositionSeconds int       `json:"positionSeconds"`
	Percent         float64   `json:"percent"`
	Completed       bool      `json:"completed"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// completionThreshold marks content as finished near the end; players rarely
// report the exact final second.
const completionThreshold = 95.0
