package request

import "github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"

const (
	DefaultFrom = 0
	DefaultSize = 10
)

var ErrInvalidPagination = apperror.BadRequest("pagination parameters must be positive")

// Pagination is the offset-based window accepted by every list endpoint.
// From is a zero-based element offset; it is rounded down to a page boundary.
type Pagination struct {
	From int `form:"from,default=0"`
	Size int `form:"size,default=10"`
}

// DefaultPagination returns the window used when the caller sends none.
func DefaultPagination() Pagination {
	return Pagination{From: DefaultFrom, Size: DefaultSize}
}

// Validate rejects negative values and an empty page size.
func (p Pagination) Validate() error {
	if p.From < 0 || p.Size <= 0 {
		return ErrInvalidPagination
	}
	return nil
}

// PageIndex is the zero-based page that contains From.
func (p Pagination) PageIndex() int {
	return p.From / p.Size
}

// Offset is the first row of the page, i.e. PageIndex * Size.
func (p Pagination) Offset() int {
	return p.PageIndex() * p.Size
}

// Limit is the page size.
func (p Pagination) Limit() int {
	return p.Size
}
