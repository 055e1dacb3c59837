// Package replacement provides the policies that choose which resident page
// gives up its frame when physical memory is full.
package replacement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sarchlab/pagesim/mem/vm"
)

// ErrInvalidPolicy is returned when a policy selector or name is unknown.
var ErrInvalidPolicy = errors.New("invalid replacement policy")

// A Policy decides which page should be evicted.
type Policy interface {
	// Name returns a human readable name of the policy.
	Name() string

	// Touch records an access to a resident page.
	Touch(pt vm.PageTable, page vm.PageNumber)

	// FindVictim selects a resident page to evict. It returns false only if
	// no page is resident.
	FindVictim(pt vm.PageTable) (vm.PageNumber, bool)

	// Reset drops any state kept between calls.
	Reset()
}

// Selector values accepted on the command line.
const (
	SelectorLRU          = 0
	SelectorSecondChance = 1
)

// FromSelector creates a policy from its numeric selector.
func FromSelector(selector int) (Policy, error) {
	switch selector {
	case SelectorLRU:
		return NewLRU(), nil
	case SelectorSecondChance:
		return NewSecondChance(), nil
	default:
		return nil, fmt.Errorf("%w: selector %d, use %d for LRU or %d for "+
			"Second-Chance", ErrInvalidPolicy, selector,
			SelectorLRU, SelectorSecondChance)
	}
}

// FromName creates a policy from its name.
func FromName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lru":
		return NewLRU(), nil
	case "second-chance", "secondchance", "clock":
		return NewSecondChance(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPolicy, name)
	}
}
