package models

// Page is the list envelope of the paged endpoints. Page is zero-based.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// Last reports whether this is the final page.
func (p Page[T]) Last() bool {
	return p.Page+1 >= p.TotalPages
}
