package models

// Pagination describes page metadata returned by list endpoints.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// NewPagination derives page metadata from a total row count.
func NewPagination(page, pageSize, totalCount int) Pagination {
	pages := 0
	if pageSize > 0 {
		pages = (totalCount + pageSize - 1) / pageSize
	}
	return Pagination{Page: page, PageSize: pageSize, TotalCount: totalCount, TotalPages: pages}
}

// Shift is a coarse time-of-day band used to scope eligible time slots.
type Shift string

const (
	ShiftMorning   Shift = "MORNING"
	ShiftAfternoon Shift = "AFTERNOON"
	ShiftEvening   Shift = "EVENING"
)

// Valid reports whether the shift is one of the known bands.
func (s Shift) Valid() bool {
	switch s {
	case ShiftMorning, ShiftAfternoon, ShiftEvening:
		return true
	}
	return false
}
