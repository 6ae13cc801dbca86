// Package listing filters and paginates in-memory result lists.
package listing

import (
	"strings"

	"hotelbook/internal/models"
)

// Page sizes used by the views.
const (
	PublicRoomsPerPage = 8
	AdminRoomsPerPage  = 5
	BookingsPerPage    = 5
)

// Filter returns the items matching pred, in order. A nil pred keeps everything.
func Filter[T any](items []T, pred func(T) bool) []T {
	if pred == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// ByRoomType matches rooms whose type equals t. An empty t yields a nil
// predicate, which Filter treats as keep-all.
func ByRoomType(t string) func(models.Room) bool {
	if t == "" {
		return nil
	}
	return func(r models.Room) bool { return r.Type == t }
}

// ByReference matches bookings whose reference contains term, ignoring case.
// A blank term yields a nil predicate.
func ByReference(term string) func(models.Booking) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	return func(b models.Booking) bool {
		return strings.Contains(strings.ToLower(b.BookingReference), term)
	}
}

// Page returns the 1-based page of items. Out of range pages are empty.
func Page[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages is the number of pages needed for n items.
func TotalPages(n, size int) int {
	if n <= 0 || size < 1 {
		return 0
	}
	return (n + size - 1) / size
}

// Pager is a filtered, paginated view over a list.
type Pager[T any] struct {
	all      []T
	filtered []T
	pred     func(T) bool
	page     int
	size     int
}

// NewPager builds a pager starting at page 1.
func NewPager[T any](size int) *Pager[T] {
	if size < 1 {
		size = 1
	}
	return &Pager[T]{page: 1, size: size}
}

// SetItems replaces the underlying list, keeping the filter and resetting to page 1.
func (p *Pager[T]) SetItems(items []T) {
	p.all = items
	p.filtered = Filter(items, p.pred)
	p.page = 1
}

// SetFilter applies pred and resets to page 1.
func (p *Pager[T]) SetFilter(pred func(T) bool) {
	p.pred = pred
	p.filtered = Filter(p.all, pred)
	p.page = 1
}

// GoTo moves to page n if it exists.
func (p *Pager[T]) GoTo(n int) bool {
	if n < 1 || n > p.Pages() {
		return false
	}
	p.page = n
	return true
}

// Next advances one page.
func (p *Pager[T]) Next() bool { return p.GoTo(p.page + 1) }

// Prev goes back one page.
func (p *Pager[T]) Prev() bool { return p.GoTo(p.page - 1) }

func (p *Pager[T]) Current() int { return p.page }
func (p *Pager[T]) Size() int    { return p.size }
func (p *Pager[T]) Total() int   { return len(p.filtered) }
func (p *Pager[T]) Pages() int   { return TotalPages(len(p.filtered), p.size) }
func (p *Pager[T]) All() []T     { return p.all }

// Items is the current page of the filtered list.
func (p *Pager[T]) Items() []T {
	return Page(p.filtered, p.page, p.size)
}

// Numbers lists 1..Pages for a page selector.
func (p *Pager[T]) Numbers() []int {
	n := p.Pages()
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
