package repository

import "fmt"

var DefaultPageSizes = []int{10, 20, 50}

const DefaultPageSize = 10

// MaxPage bounds the page number so the offset stays well inside the
// range of an integer OFFSET.
const MaxPage = 100000

type Pagination struct {
	Page     int
	PageSize int
}

// PageMeta is returned next to every paginated collection.
type PageMeta struct {
	Total     int64  `json:"total"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
	PageCount int    `json:"page_count"`
	PageInfo  string `json:"page_info"`
}

// NewPagination clamps page to 1..MaxPage and pageSize to one of the
// allowed sizes.
func NewPagination(page int, pageSize int, allowed []int) Pagination {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if len(allowed) == 0 {
		allowed = DefaultPageSizes
	}

	size := allowed[0]
	for _, s := range allowed {
		if s == pageSize {
			size = s
			break
		}
	}

	return Pagination{Page: page, PageSize: size}
}

func (p Pagination) Offset() uint {
	return uint((p.Page - 1) * p.PageSize)
}

func (p Pagination) Limit() uint {
	return uint(p.PageSize)
}

func (p Pagination) Meta(total int64) PageMeta {
	return PageMeta{
		Total:     total,
		Page:      p.Page,
		PageSize:  p.PageSize,
		PageCount: PageCount(total, p.PageSize),
		PageInfo:  PageInfo(p.Page, p.PageSize, total),
	}
}

func PageCount(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// RowsOnPage is the number of rows page holds for a result of size total.
func RowsOnPage(total int64, page int, pageSize int) int {
	start := int64((page - 1) * pageSize)
	if page < 1 || pageSize <= 0 || start >= total {
		return 0
	}
	remaining := total - start
	if remaining > int64(pageSize) {
		return pageSize
	}
	return int(remaining)
}

// PageInfo renders the range shown on page, e.g. "Showing 21-25 of 25".
func PageInfo(page int, pageSize int, total int64) string {
	rows := RowsOnPage(total, page, pageSize)
	if rows == 0 {
		return fmt.Sprintf("Showing 0 of %d", total)
	}
	first := int64((page-1)*pageSize) + 1
	last := first + int64(rows) - 1
	return fmt.Sprintf("Showing %d-%d of %d", first, last, total)
}

// Page is one page of a collection together with its paging metadata.
type Page[T any] struct {
	Data []T `json:"data"`
	PageMeta
}

func NewPage[T any](data []T, pagination Pagination, total int64) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, PageMeta: pagination.Meta(total)}
}
