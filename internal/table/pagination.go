package table

import (
	"slices"
	"strconv"
)

// PageSizes are the page-size choices offered by the size selector.
var PageSizes = []int{10, 20, 30, 40, 50}

// PageItem is one slot of the pager: a page number or a gap.
type PageItem struct {
	Page int
	Gap  bool
}

func (p PageItem) String() string {
	if p.Gap {
		return "…"
	}
	return strconv.Itoa(p.Page)
}

// TotalPages is ceil(total/size).
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// PageWindow picks the page numbers shown around current.
//
//	total <= 3          all pages
//	current <= 3        1 2 3 … last
//	current >= last-2   1 … last-3 last-2 last-1 last
//	otherwise           1 … current-2 .. current+2 … last
//
// A gap marker is only placed where pages are actually skipped. This is the
// one departure from the rules above: (4, 10) gives 1 2 3 4 5 6 … 10, with
// no marker between the adjacent pages 1 and 2.
func PageWindow(current, total int) []PageItem {
	if total <= 0 {
		return nil
	}

	var pages []int
	switch {
	case total <= 3:
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
	case current <= 3:
		pages = []int{1, 2, 3, total}
	case current >= total-2:
		pages = []int{1, total - 3, total - 2, total - 1, total}
	default:
		pages = []int{1}
		for i := current - 2; i <= current+2; i++ {
			pages = append(pages, i)
		}
		pages = append(pages, total)
	}

	pages = slices.DeleteFunc(pages, func(p int) bool { return p < 1 || p > total })
	slices.Sort(pages)
	pages = slices.Compact(pages)

	items := make([]PageItem, 0, len(pages)+2)
	for i, p := range pages {
		if i > 0 && p-pages[i-1] > 1 {
			items = append(items, PageItem{Gap: true})
		}
		items = append(items, PageItem{Page: p})
	}
	return items
}

// CanPrev reports whether a previous page exists.
func CanPrev(page int) bool {
	return page > 1
}

// CanNext reports whether a next page exists.
func CanNext(page, totalPages int) bool {
	return page < totalPages
}

// RowRange is the 1-based inclusive range of rows shown on page.
func RowRange(page, size, total int) (from, to int) {
	if total <= 0 || size <= 0 || page < 1 {
		return 0, 0
	}
	from = (page-1)*size + 1
	if from > total {
		return 0, 0
	}
	to = min(page*size, total)
	return from, to
}

// NextPageSize steps through PageSizes. Sizes not in the list snap to the
// nearest option in the requested direction.
func NextPageSize(current int, up bool) int {
	if up {
		for _, s := range PageSizes {
			if s > current {
				return s
			}
		}
		return PageSizes[len(PageSizes)-1]
	}
	for i := len(PageSizes) - 1; i >= 0; i-- {
		if PageSizes[i] < current {
			return PageSizes[i]
		}
	}
	return PageSizes[0]
}
