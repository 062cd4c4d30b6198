// Package sortorder assigns display positions within a group of siblings.
package sortorder

import "github.com/Aidin1998/qrmenu/common/set"

// Assign returns the position to store for an item that asked for requested
// among siblings already holding taken. Zero or negative asks for the slot
// after the current maximum; a taken positive value is probed upward to the
// next free slot.
func Assign(requested int, taken set.Set[int]) int {
	if requested <= 0 {
		highest := 0
		for v := range taken {
			if v > highest {
				highest = v
			}
		}
		return highest + 1
	}
	for taken.Include(requested) {
		requested++
	}
	return requested
}
