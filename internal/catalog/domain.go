// Package catalog owns the purchasable content records and the filtered
// query surface over them.
package catalog

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("catalog: content not found")
	ErrSlugTaken      = errors.New("catalog: slug already in use")
	ErrNotPublishable = errors.New("catalog: content not publishable")
)

// ContentType is the delivery format of a piece of content.
type ContentType string

const (
	TypeVideo ContentType = "VIDEO"
	TypePDF   ContentType = "PDF"
	TypeText  ContentType = "TEXT"
)

// Difficulty tags content for learners.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
)

// Status is the lifecycle state. Only PUBLISHED rows are ever served to the
// public catalog.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

// Content is a catalog record representing purchasable or free material.
type Content struct {
	ID            int64       `json:"id"`
	Slug          string      `json:"slug"`
	Title         string      `json:"title"`
	Excerpt       string      `json:"excerpt"`
	Description   string      `json:"description"`
	Type          ContentType `json:"type"`
	Difficulty    Difficulty  `json:"difficulty"`
	Status        Status      `json:"status"`
	IsFree        bool        `json:"isFree"`
	PriceCents    int64       `json:"priceCents"`
	MediaURL      string      `json:"mediaUrl,omitempty"`
	Body          string      `json:"body,omitempty"`
	Rating        float64     `json:"rating"`
	PurchaseCount int64       `json:"purchaseCount"`
	Categories    []string    `json:"categories"`
	PublishedAt   *time.Time  `json:"publishedAt,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Category groups content for filtering.
type Category struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Locked strips the media payload from paid content the caller has not
// purchased. Listing responses are always locked; detail responses unlock
// after an access check.
func (c Content) Locked() Content {
	if c.IsFree {
		return c
	}
	c.MediaURL = ""
	c.Body = ""
	return c
}
