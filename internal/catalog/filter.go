package catalog

import (
	"fmt"
	"strings"
)

const (
	// DefaultPageLimit is applied when the caller sends no limit.
	DefaultPageLimit = 12
	// MaxPageLimit caps caller-controlled page sizes.
	MaxPageLimit = 100
	// FilterAll is the sentinel meaning "no restriction" for type/difficulty.
	FilterAll = "all"

	PriceFree = "free"
	PricePaid = "paid"
)

// Filter is the request-scoped set of optional catalog query parameters.
// All fields are optional; the zero value lists the newest published content.
type Filter struct {
	Type       string
	Category   string
	Search     string
	SortBy     string
	Difficulty string
	Price      string
	Page       int
	Limit      int
}

// Normalized applies page/limit defaults and the page-size cap.
func (f Filter) Normalized() Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	return f
}

// Key is a stable identity for the normalized filter, used to collapse
// identical in-flight listing queries.
func (f Filter) Key() string {
	n := f.Normalized()
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%d|%d",
		n.Type, n.Category, n.Search, n.SortBy, n.Difficulty, n.Price, n.Page, n.Limit)
}

// Predicate is one typed restriction on the catalog query. Predicates render
// themselves into SQL with positional arguments, replacing the untyped
// where-map construction this module grew out of.
type Predicate interface {
	SQL(args *[]any) string
}

// Equals restricts a column to an exact value.
type Equals struct {
	Field string
	Value any
}

func (p Equals) SQL(args *[]any) string {
	*args = append(*args, p.Value)
	return fmt.Sprintf("%s = $%d", p.Field, len(*args))
}

// Contains restricts a column to a case-insensitive substring match.
type Contains struct {
	Field string
	Text  string
}

func (p Contains) SQL(args *[]any) string {
	*args = append(*args, "%"+p.Text+"%")
	return fmt.Sprintf("%s ILIKE $%d", p.Field, len(*args))
}

// Or combines predicates disjunctively.
type Or struct {
	Preds []Predicate
}

func (p Or) SQL(args *[]any) string {
	parts := make([]string, 0, len(p.Preds))
	for _, pred := range p.Preds {
		parts = append(parts, pred.SQL(args))
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// HasCategory restricts to content joined to a category slug.
type HasCategory struct {
	Slug string
}

func (p HasCategory) SQL(args *[]any) string {
	*args = append(*args, p.Slug)
	return fmt.Sprintf(`EXISTS (
		SELECT 1 FROM content_categories cc
		JOIN categories c ON c.id = cc.category_id
		WHERE cc.content_id = contents.id AND c.slug = $%d
	)`, len(*args))
}

// Predicates translates the filter into its conjunctive predicate list. The
// base predicate pins status to PUBLISHED; every other restriction is
// additive and order-insensitive.
func (f Filter) Predicates() []Predicate {
	preds := []Predicate{Equals{Field: "status", Value: string(StatusPublished)}}

	if f.Type != "" && f.Type != FilterAll {
		preds = append(preds, Equals{Field: "type", Value: f.Type})
	}
	if f.Category != "" {
		preds = append(preds, HasCategory{Slug: f.Category})
	}
	if f.Difficulty != "" && f.Difficulty != FilterAll {
		preds = append(preds, Equals{Field: "difficulty", Value: f.Difficulty})
	}
	switch f.Price {
	case PriceFree:
		preds = append(preds, Equals{Field: "is_free", Value: true})
	case PricePaid:
		preds = append(preds, Equals{Field: "is_free", Value: false})
	}
	if f.Search != "" {
		preds = append(preds, Or{Preds: []Predicate{
			Contains{Field: "title", Text: f.Search},
			Contains{Field: "excerpt", Text: f.Search},
			Contains{Field: "description", Text: f.Search},
		}})
	}
	return preds
}

// sortClauses is the enumerated sort table.
var sortClauses = map[string]string{
	"newest":     "published_at DESC",
	"oldest":     "published_at ASC",
	"price_asc":  "price_cents ASC",
	"price_desc": "price_cents DESC",
	"popular":    "purchase_count DESC",
	"rating":     "rating DESC",
}

// OrderBy resolves SortBy to an ORDER BY clause. Unrecognized or absent
// values fall back to newest. Every ordering carries an id tie-break so
// equal keys sort deterministically.
func (f Filter) OrderBy() string {
	clause, ok := sortClauses[f.SortBy]
	if !ok {
		clause = sortClauses["newest"]
	}
	return clause + ", id DESC"
}
