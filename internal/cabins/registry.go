// Package cabins implements the room registry operations of the clinic
// settings screen: ordering, activation-aware views, reordering and
// deletion of a clinic's cabin list.
package cabins

import (
	"sort"
	"strings"

	"organicare/internal/model"
)

// ActiveOrdered returns the active cabins sorted ascending by display
// order. This is the view the agenda grid renders as columns.
func ActiveOrdered(cabins []model.Cabin) []model.Cabin {
	result := make([]model.Cabin, 0, len(cabins))
	for _, c := range cabins {
		if c.IsActive {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result
}

// Ordered returns all cabins sorted by display order, the settings table
// view.
func Ordered(cabins []model.Cabin) []model.Cabin {
	result := append([]model.Cabin(nil), cabins...)
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result
}

// MoveUp swaps the order of the cabin with the previous active cabin.
// Moving the first active cabin is a no-op; it returns whether anything
// changed. The cabin slice is mutated in place.
func MoveUp(cabins []model.Cabin, id int64) bool {
	return swapWithNeighbor(cabins, id, -1)
}

// MoveDown swaps the order of the cabin with the next active cabin.
// Moving the last active cabin is a no-op.
func MoveDown(cabins []model.Cabin, id int64) bool {
	return swapWithNeighbor(cabins, id, +1)
}

func swapWithNeighbor(cabins []model.Cabin, id int64, direction int) bool {
	active := ActiveOrdered(cabins)
	pos := -1
	for i, c := range active {
		if c.ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false
	}
	neighbor := pos + direction
	if neighbor < 0 || neighbor >= len(active) {
		return false
	}

	a := indexOf(cabins, active[pos].ID)
	b := indexOf(cabins, active[neighbor].ID)
	if a < 0 || b < 0 {
		return false
	}
	cabins[a].Order, cabins[b].Order = cabins[b].Order, cabins[a].Order
	return true
}

// Delete removes the cabin with the given id. Remaining order values are
// not resequenced; gaps are tolerated by the ordered views.
func Delete(cabins []model.Cabin, id int64) ([]model.Cabin, bool) {
	i := indexOf(cabins, id)
	if i < 0 {
		return cabins, false
	}
	return append(cabins[:i], cabins[i+1:]...), true
}

// Filter returns cabins whose code or name contains the query,
// case-insensitively. An empty query matches everything.
func Filter(cabins []model.Cabin, query string) []model.Cabin {
	if query == "" {
		return Ordered(cabins)
	}
	q := strings.ToLower(query)
	result := make([]model.Cabin, 0, len(cabins))
	for _, c := range Ordered(cabins) {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Code), q) {
			result = append(result, c)
		}
	}
	return result
}

// NextID returns an id for a newly created cabin: one past the current
// maximum.
func NextID(cabins []model.Cabin) int64 {
	var max int64
	for _, c := range cabins {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

// NextOrder returns an order value placing a new cabin last.
func NextOrder(cabins []model.Cabin) int {
	var max int
	for _, c := range cabins {
		if c.Order > max {
			max = c.Order
		}
	}
	return max + 1
}

func indexOf(cabins []model.Cabin, id int64) int {
	for i := range cabins {
		if cabins[i].ID == id {
			return i
		}
	}
	return -1
}
