package shared

import "testing"

func TestNewPageInfo(t *testing.T) {
	cases := []struct {
		name                string
		page, limit, total  int
		wantPage, wantPages int
		wantNext, wantPrev  bool
	}{
		{name: "first page", page: 1, limit: 12, total: 30, wantPage: 1, wantPages: 3, wantNext: true},
		{name: "middle page", page: 2, limit: 12, total: 30, wantPage: 2, wantPages: 3, wantNext: true, wantPrev: true},
		{name: "last page", page: 3, limit: 12, total: 30, wantPage: 3, wantPages: 3, wantPrev: true},
		{name: "exact division", page: 1, limit: 10, total: 20, wantPage: 1, wantPages: 2, wantNext: true},
		{name: "empty result", page: 1, limit: 12, total: 0, wantPage: 1, wantPages: 0},
		{name: "zero page defaults", page: 0, limit: 12, total: 5, wantPage: 1, wantPages: 1},
		{name: "negative page defaults", page: -4, limit: 12, total: 5, wantPage: 1, wantPages: 1},
		{name: "zero limit yields zero pages", page: 1, limit: 0, total: 50, wantPage: 1, wantPages: 0},
		{name: "negative limit yields zero pages", page: 1, limit: -7, total: 50, wantPage: 1, wantPages: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := NewPageInfo(tc.page, tc.limit, tc.total)
			if info.Page != tc.wantPage {
				t.Fatalf("page = %d, want %d", info.Page, tc.wantPage)
			}
			if info.Pages != tc.wantPages {
				t.Fatalf("pages = %d, want %d", info.Pages, tc.wantPages)
			}
			if info.HasNext != tc.wantNext {
				t.Fatalf("hasNext = %v, want %v", info.HasNext, tc.wantNext)
			}
			if info.HasPrev != tc.wantPrev {
				t.Fatalf("hasPrev = %v, want %v", info.HasPrev, tc.wantPrev)
			}
			if info.Total != tc.total {
				t.Fatalf("total = %d, want %d", info.Total, tc.total)
			}
		})
	}
}

func TestPageInfoOffset(t *testing.T) {
	if off := NewPageInfo(3, 12, 100).Offset(); off != 24 {
		t.Fatalf("offset = %d, want 24", off)
	}
	if off := NewPageInfo(1, 0, 100).Offset(); off != 0 {
		t.Fatalf("degenerate limit must offset 0, got %d", off)
	}
}
