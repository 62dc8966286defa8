package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePage(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		pageSize  int
		total     int64
		wantPage  int
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"first of three", 1, 10, 27, 1, 3, true, false},
		{"middle", 2, 10, 27, 2, 3, true, true},
		{"last partial", 3, 10, 27, 3, 3, false, true},
		{"past the end clamps", 99, 10, 27, 3, 3, false, true},
		{"zero clamps to one", 0, 10, 27, 1, 3, true, false},
		{"negative clamps to one", -5, 10, 27, 1, 3, true, false},
		{"empty set still has one page", 7, 10, 0, 1, 1, false, false},
		{"exact multiple", 2, 10, 20, 2, 2, false, true},
		{"bad page size falls back", 1, 0, 5, 1, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, info := resolvePage(tt.page, tt.pageSize, tt.total)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPage, info.Page)
			assert.Equal(t, tt.wantPages, info.TotalPages)
			assert.Equal(t, tt.wantNext, info.HasNext)
			assert.Equal(t, tt.wantPrev, info.HasPrev)
			assert.Equal(t, tt.total, info.Total)
		})
	}
}
