package model

import "fmt"

// Page is the paginated list envelope returned by every list endpoint.
type Page[T any] struct {
	Items           []T  `json:"items"`
	PageNumber      int  `json:"pageNumber"`
	PageSize        int  `json:"pageSize"`
	TotalCount      int  `json:"totalCount"`
	TotalPages      int  `json:"totalPages"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

// TotalPages returns ceil(count/size); zero when size is not positive.
func TotalPages(count, size int) int {
	if size <= 0 || count <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// NewPage builds an envelope for items already sliced to the requested page.
func NewPage[T any](items []T, pageNumber, pageSize, totalCount int) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := TotalPages(totalCount, pageSize)
	return Page[T]{
		Items:           items,
		PageNumber:      pageNumber,
		PageSize:        pageSize,
		TotalCount:      totalCount,
		TotalPages:      pages,
		HasPreviousPage: pageNumber > 1,
		HasNextPage:     pageNumber < pages,
	}
}

// Check verifies the envelope's counting invariants.
func (p Page[T]) Check() error {
	if p.PageSize < 1 {
		return fmt.Errorf("page size %d < 1", p.PageSize)
	}
	if want := TotalPages(p.TotalCount, p.PageSize); p.TotalPages != want {
		return fmt.Errorf("totalPages = %d, want ceil(%d/%d) = %d", p.TotalPages, p.TotalCount, p.PageSize, want)
	}
	if len(p.Items) > p.PageSize {
		return fmt.Errorf("page holds %d items, exceeds page size %d", len(p.Items), p.PageSize)
	}
	return nil
}

// IDs returns the entity IDs of the page items in order.
func IDs[T Entity](items []T) []int {
	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.EntityID()
	}
	return ids
}
