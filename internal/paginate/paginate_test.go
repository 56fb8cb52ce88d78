package paginate

import (
	"reflect"
	"testing"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		page       int
		size       int
		wantPage   int
		wantTotal  int
		wantFirst  int
		wantLength int
	}{
		{name: "first page", count: 25, page: 1, size: 10, wantPage: 1, wantTotal: 3, wantFirst: 1, wantLength: 10},
		{name: "middle page", count: 25, page: 2, size: 10, wantPage: 2, wantTotal: 3, wantFirst: 11, wantLength: 10},
		{name: "last partial page", count: 25, page: 3, size: 10, wantPage: 3, wantTotal: 3, wantFirst: 21, wantLength: 5},
		{name: "page past the end clamps", count: 25, page: 99, size: 10, wantPage: 3, wantTotal: 3, wantFirst: 21, wantLength: 5},
		{name: "zero page clamps to first", count: 25, page: 0, size: 10, wantPage: 1, wantTotal: 3, wantFirst: 1, wantLength: 10},
		{name: "negative page clamps to first", count: 25, page: -4, size: 10, wantPage: 1, wantTotal: 3, wantFirst: 1, wantLength: 10},
		{name: "exact multiple", count: 20, page: 2, size: 10, wantPage: 2, wantTotal: 2, wantFirst: 11, wantLength: 10},
		{name: "default size", count: 20, page: 1, size: 0, wantPage: 1, wantTotal: 3, wantFirst: 1, wantLength: DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(seq(tt.count), tt.page, tt.size)
			if got.Page != tt.wantPage || got.TotalPages != tt.wantTotal || got.Total != tt.count {
				t.Fatalf("Paginate(%d items, page %d, size %d) = page %d/%d total %d, want page %d/%d total %d",
					tt.count, tt.page, tt.size, got.Page, got.TotalPages, got.Total, tt.wantPage, tt.wantTotal, tt.count)
			}
			if len(got.Items) != tt.wantLength || got.Items[0] != tt.wantFirst {
				t.Errorf("Items = %v, want %d items starting at %d", got.Items, tt.wantLength, tt.wantFirst)
			}
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	got := Paginate([]string(nil), 5, 10)
	if got.Page != 1 || got.TotalPages != 1 || got.Total != 0 || len(got.Items) != 0 {
		t.Errorf("Paginate(empty) = %+v", got)
	}
}

func TestPaginate_ClampReturnsLastItems(t *testing.T) {
	got := Paginate(seq(25), 99, 10)
	if want := []int{21, 22, 23, 24, 25}; !reflect.DeepEqual(got.Items, want) {
		t.Errorf("Items = %v, want %v", got.Items, want)
	}
}

func TestPage_Navigation(t *testing.T) {
	first := Paginate(seq(25), 1, 10)
	if first.HasPrev() || !first.HasNext() {
		t.Errorf("first page: HasPrev=%v HasNext=%v", first.HasPrev(), first.HasNext())
	}
	last := Paginate(seq(25), 3, 10)
	if !last.HasPrev() || last.HasNext() {
		t.Errorf("last page: HasPrev=%v HasNext=%v", last.HasPrev(), last.HasNext())
	}
}
