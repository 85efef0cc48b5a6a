package shell

import (
	"strconv"
	"strings"

	perrors "github.com/openplayground/catalog/internal/errors"
)

// MaxVisiblePages is the width of the page-number window.
const MaxVisiblePages = 5

// PageItem is one element of the page-number strip: a page button or an
// ellipsis gap.
type PageItem struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Active   bool `json:"active,omitempty"`
}

// Label returns the text shown for the item.
func (it PageItem) Label() string {
	if it.Ellipsis {
		return "..."
	}
	return strconv.Itoa(it.Page)
}

// Pagination describes the pagination controls for a rendered page.
// Items is empty when there is at most one page.
type Pagination struct {
	Page         int        `json:"page"`
	TotalPages   int        `json:"total_pages"`
	PrevDisabled bool       `json:"prev_disabled"`
	NextDisabled bool       `json:"next_disabled"`
	Items        []PageItem `json:"items"`
}

// Visible reports whether controls should be shown at all.
func (p Pagination) Visible() bool {
	return p.TotalPages > 1
}

// String renders the strip compactly, e.g. "< 1 ... 4 [5] 6 ... 9 >".
func (p Pagination) String() string {
	if !p.Visible() {
		return ""
	}
	parts := []string{"<"}
	for _, it := range p.Items {
		if it.Active {
			parts = append(parts, "["+it.Label()+"]")
		} else {
			parts = append(parts, it.Label())
		}
	}
	parts = append(parts, ">")
	return strings.Join(parts, " ")
}

// TotalPages returns ceil(items/size).
func TotalPages(items, size int) int {
	if size <= 0 || items <= 0 {
		return 0
	}
	return (items + size - 1) / size
}

// ClampPage moves page into [1, total]. With no pages it returns 1.
func ClampPage(page, total int) int {
	if page < 1 || total < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// ParsePage validates a 1-based page number from user input. Empty input
// means page 1.
func ParsePage(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, perrors.New(perrors.ErrCodeInvalidPage, "page must be a positive integer, got \""+s+"\"", err)
	}
	return n, nil
}

// BuildPagination computes the controls for page out of total pages.
// The window holds at most MaxVisiblePages numbers centred on page. The
// first and last pages are always reachable, with an ellipsis when the
// window does not touch their neighbour.
func BuildPagination(page, total int) Pagination {
	page = ClampPage(page, total)
	p := Pagination{
		Page:         page,
		TotalPages:   total,
		PrevDisabled: page <= 1,
		NextDisabled: page >= total,
	}
	if total <= 1 {
		return p
	}

	start := max(1, page-MaxVisiblePages/2)
	end := min(total, start+MaxVisiblePages-1)
	if end-start+1 < MaxVisiblePages {
		start = max(1, end-MaxVisiblePages+1)
	}

	if start > 1 {
		p.Items = append(p.Items, PageItem{Page: 1})
		if start > 2 {
			p.Items = append(p.Items, PageItem{Ellipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		p.Items = append(p.Items, PageItem{Page: i, Active: i == page})
	}
	if end < total {
		if end < total-1 {
			p.Items = append(p.Items, PageItem{Ellipsis: true})
		}
		p.Items = append(p.Items, PageItem{Page: total})
	}
	return p
}
