package service

import "math"

// Page size bounds for list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a normalized page request.
type Page struct {
	Number int
	Size   int
}

// MaxPageNumber keeps Offset from overflowing for any size up to MaxPageSize.
const MaxPageNumber = math.MaxInt32 / MaxPageSize

// NewPage clamps page to [1, MaxPageNumber] and size to [1, MaxPageSize],
// defaulting non-positive sizes to DefaultPageSize.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if number > MaxPageNumber {
		number = MaxPageNumber
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
