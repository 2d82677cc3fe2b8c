package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func windowString(items []PageItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, " ")
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total int
		want           string
	}{
		{1, 0, ""},
		{1, 1, "1"},
		{2, 3, "1 2 3"},
		{1, 10, "1 2 3 … 10"},
		{3, 10, "1 2 3 … 10"},
		{5, 10, "1 … 3 4 5 6 7 … 10"},
		{6, 10, "1 … 4 5 6 7 8 … 10"},
		{9, 10, "1 … 7 8 9 10"},
		{10, 10, "1 … 7 8 9 10"},
		{4, 10, "1 2 3 4 5 6 … 10"},
		{4, 20, "1 2 3 4 5 6 … 20"},
		{2, 4, "1 2 3 4"},
		{3, 5, "1 2 3 … 5"},
	}
	for _, tt := range tests {
		got := windowString(PageWindow(tt.current, tt.total))
		assert.Equal(t, tt.want, got, "current=%d total=%d", tt.current, tt.total)
	}
}

func TestPageWindowIsSortedAndUnique(t *testing.T) {
	for total := 1; total <= 30; total++ {
		for current := 1; current <= total; current++ {
			last := 0
			for _, it := range PageWindow(current, total) {
				if it.Gap {
					continue
				}
				assert.Greater(t, it.Page, last)
				assert.LessOrEqual(t, it.Page, total)
				last = it.Page
			}
		}
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(11, 0))
}

func TestPrevNextBounds(t *testing.T) {
	assert.False(t, CanPrev(1))
	assert.True(t, CanPrev(2))
	assert.True(t, CanNext(1, 2))
	assert.False(t, CanNext(2, 2))
	assert.False(t, CanNext(1, 0))
}

func TestRowRange(t *testing.T) {
	from, to := RowRange(1, 10, 95)
	assert.Equal(t, [2]int{1, 10}, [2]int{from, to})

	from, to = RowRange(10, 10, 95)
	assert.Equal(t, [2]int{91, 95}, [2]int{from, to})

	from, to = RowRange(11, 10, 95)
	assert.Equal(t, [2]int{0, 0}, [2]int{from, to})
}

func TestNextPageSize(t *testing.T) {
	assert.Equal(t, 20, NextPageSize(10, true))
	assert.Equal(t, 50, NextPageSize(50, true))
	assert.Equal(t, 10, NextPageSize(10, false))
	assert.Equal(t, 20, NextPageSize(25, false))
	assert.Equal(t, 30, NextPageSize(25, true))
}
