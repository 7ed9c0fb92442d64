package services

import (
	"strconv"

	"github.com/spf13/viper"
)

const DefaultPageSize = 10

func GetPageSize() int {
	if size := viper.GetInt("posts.page_size"); size > 0 {
		return size
	}
	return DefaultPageSize
}

// Pagination describes one page of a listing.
// A listing without items still has a single empty page.
type Pagination struct {
	Number int   `json:"number"`
	Total  int   `json:"total"`
	Count  int64 `json:"count"`
	Size   int   `json:"size"`
}

// NewPagination clamps the requested page into range. Anything that is not
// a number is treated as the first page.
func NewPagination(count int64, size int, requested string) Pagination {
	if size <= 0 {
		size = DefaultPageSize
	}

	total := int((count + int64(size) - 1) / int64(size))
	if total < 1 {
		total = 1
	}

	number := ParsePageNumber(requested)
	if number > total {
		number = total
	}

	return Pagination{
		Number: number,
		Total:  total,
		Count:  count,
		Size:   size,
	}
}

// ParsePageNumber reads a requested page, anything unusable means the first page.
// The result is not clamped to the last page.
func ParsePageNumber(requested string) int {
	number, err := strconv.Atoi(requested)
	if err != nil || number < 1 {
		return 1
	}
	return number
}

func (v Pagination) Offset() int {
	return (v.Number - 1) * v.Size
}

func (v Pagination) HasNext() bool {
	return v.Number < v.Total
}

func (v Pagination) HasPrevious() bool {
	return v.Number > 1
}

func (v Pagination) HasOtherPages() bool {
	return v.Total > 1
}

func (v Pagination) Next() int {
	return v.Number + 1
}

func (v Pagination) Previous() int {
	return v.Number - 1
}

func (v Pagination) Pages() []int {
	pages := make([]int, v.Total)
	for idx := range pages {
		pages[idx] = idx + 1
	}
	return pages
}
