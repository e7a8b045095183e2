package domain

import "math"

// PageSize is the fixed number of products per listing page.
const PageSize = 12

// Paginate returns the items of a 1-based page. Pages past the end yield an
// empty slice.
func Paginate(products []Product, page, pageSize int) []Product {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	if page < 1 {
		page = 1
	}
	if page > TotalPages(len(products), pageSize) {
		return []Product{}
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

// TotalPages returns ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// PageOffset returns the index of the first item of a 1-based page. Pages
// whose offset does not fit in an int saturate at math.MaxInt, which is past
// the end of any result.
func PageOffset(page, pageSize int) int {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	if page < 1 {
		return 0
	}
	if page-1 > (math.MaxInt-pageSize)/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}
