package catalog

import (
	"strings"
	"testing"
)

func TestNormalizedDefaults(t *testing.T) {
	n := Filter{}.Normalized()
	if n.Page != 1 || n.Limit != DefaultPageLimit {
		t.Fatalf("unexpected defaults: page=%d limit=%d", n.Page, n.Limit)
	}
}

func TestNormalizedCapsLimit(t *testing.T) {
	n := Filter{Page: -3, Limit: 500}.Normalized()
	if n.Page != 1 {
		t.Fatalf("negative page should reset to 1, got %d", n.Page)
	}
	if n.Limit != MaxPageLimit {
		t.Fatalf("limit should cap at %d, got %d", MaxPageLimit, n.Limit)
	}
}

func TestPredicatesBaseIsPublishedOnly(t *testing.T) {
	preds := Filter{}.Predicates()
	if len(preds) != 1 {
		t.Fatalf("zero filter should yield only the base predicate, got %d", len(preds))
	}
	var args []any
	sql := preds[0].SQL(&args)
	if sql != "status = $1" {
		t.Fatalf("unexpected base predicate: %s", sql)
	}
	if len(args) != 1 || args[0] != string(StatusPublished) {
		t.Fatalf("unexpected base args: %v", args)
	}
}

func TestPredicatesAllSentinelIgnored(t *testing.T) {
	preds := Filter{Type: FilterAll, Difficulty: FilterAll}.Predicates()
	if len(preds) != 1 {
		t.Fatalf("'all' sentinels must add no predicates, got %d", len(preds))
	}
}

func TestPredicatesPriceFilter(t *testing.T) {
	renderAll := func(f Filter) (string, []any) {
		var args []any
		parts := make([]string, 0, 4)
		for _, p := range f.Predicates() {
			parts = append(parts, p.SQL(&args))
		}
		return strings.Join(parts, " AND "), args
	}

	sql, args := renderAll(Filter{Price: PriceFree})
	if !strings.Contains(sql, "is_free = $2") || args[1] != true {
		t.Fatalf("free filter mis-rendered: %s %v", sql, args)
	}

	sql, args = renderAll(Filter{Price: PricePaid})
	if !strings.Contains(sql, "is_free = $2") || args[1] != false {
		t.Fatalf("paid filter mis-rendered: %s %v", sql, args)
	}

	sql, _ = renderAll(Filter{Price: "discounted"})
	if strings.Contains(sql, "is_free") {
		t.Fatalf("unrecognized price value must be ignored: %s", sql)
	}
}

func TestPredicatesSearchIsDisjunctive(t *testing.T) {
	var args []any
	parts := make([]string, 0, 2)
	for _, p := range (Filter{Search: "belajar"}).Predicates() {
		parts = append(parts, p.SQL(&args))
	}
	if len(parts) != 2 {
		t.Fatalf("expected base + search predicates, got %d", len(parts))
	}
	search := parts[1]
	if !strings.HasPrefix(search, "(") || !strings.HasSuffix(search, ")") {
		t.Fatalf("search group must be parenthesized: %s", search)
	}
	for _, field := range []string{"title ILIKE $2", "excerpt ILIKE $3", "description ILIKE $4"} {
		if !strings.Contains(search, field) {
			t.Fatalf("search predicate missing %q: %s", field, search)
		}
	}
	if strings.Count(search, " OR ") != 2 {
		t.Fatalf("search branches must be OR'd: %s", search)
	}
	for _, arg := range args[1:] {
		if arg != "%belajar%" {
			t.Fatalf("search args must be wrapped in wildcards: %v", args)
		}
	}
}

func TestPredicatesCategoryUsesExistsSubquery(t *testing.T) {
	var args []any
	preds := Filter{Category: "matematika"}.Predicates()
	sql := preds[1].SQL(&args)
	if !strings.Contains(sql, "EXISTS") || !strings.Contains(sql, "c.slug = $2") {
		t.Fatalf("unexpected category predicate: %s", sql)
	}
	if args[1] != "matematika" {
		t.Fatalf("unexpected category arg: %v", args)
	}
}

func TestPredicatesArgumentNumberingIsSequential(t *testing.T) {
	var args []any
	f := Filter{Type: "VIDEO", Category: "sains", Difficulty: "BEGINNER", Price: PricePaid, Search: "kimia"}
	rendered := make([]string, 0, 6)
	for _, p := range f.Predicates() {
		rendered = append(rendered, p.SQL(&args))
	}
	if len(args) != 8 {
		t.Fatalf("expected 8 positional args, got %d", len(args))
	}
	joined := strings.Join(rendered, " AND ")
	for i := 1; i <= 8; i++ {
		if !strings.Contains(joined, "$"+string(rune('0'+i))) {
			t.Fatalf("missing placeholder $%d in %s", i, joined)
		}
	}
}

func TestOrderBySortTable(t *testing.T) {
	cases := map[string]string{
		"newest":     "published_at DESC, id DESC",
		"oldest":     "published_at ASC, id DESC",
		"price_asc":  "price_cents ASC, id DESC",
		"price_desc": "price_cents DESC, id DESC",
		"popular":    "purchase_count DESC, id DESC",
		"rating":     "rating DESC, id DESC",
		"":           "published_at DESC, id DESC",
		"sideways":   "published_at DESC, id DESC",
	}
	for sortBy, want := range cases {
		if got := (Filter{SortBy: sortBy}).OrderBy(); got != want {
			t.Fatalf("OrderBy(%q) = %q, want %q", sortBy, got, want)
		}
	}
}

func TestKeyIdentifiesNormalizedFilter(t *testing.T) {
	a := Filter{Search: "go"}.Key()
	b := Filter{Search: "go", Page: 1, Limit: DefaultPageLimit}.Key()
	if a != b {
		t.Fatalf("equivalent filters must share a key: %q vs %q", a, b)
	}
	c := Filter{Search: "go", Page: 2}.Key()
	if a == c {
		t.Fatal("different pages must not share a key")
	}
}
