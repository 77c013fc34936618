package models

// Page is one page of a filtered list.
// From and To are 1-based for "Showing From-To of Total"; both are 0 when
// the page holds no items.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	From    int  `json:"from"`
	To      int  `json:"to"`
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
}

// Paginate slices items for page (1-based). Pages below 1 clamp to 1 and a
// non-positive perPage uses DefaultPageSize.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	total := len(items)
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}

	p := Page[T]{
		Items:   []T{},
		Page:    page,
		PerPage: perPage,
		Total:   total,
		HasPrev: page > 1,
	}
	// Compared by page count so page*perPage is never computed for pages
	// past the end.
	if page > pages {
		return p
	}
	first := (page - 1) * perPage
	end := first + min(perPage, total-first)
	p.Items = items[first:end]
	p.From = first + 1
	p.To = end
	p.HasNext = end < total
	return p
}
