package constants

import (
	"fmt"
	"strconv"
	"strings"
)

// Allocation is the fraction of a person's day committed to an assignment
type Allocation float64

const (
	// AllocationQuarter is a 25% commitment
	AllocationQuarter Allocation = 0.25
	// AllocationHalf is a 50% commitment
	AllocationHalf Allocation = 0.5
	// AllocationThreeQuarters is a 75% commitment
	AllocationThreeQuarters Allocation = 0.75
	// AllocationFull is a 100% commitment and the default for new assignments
	AllocationFull Allocation = 1
)

// IsValid checks if the allocation is one of the supported steps
func (a Allocation) IsValid() bool {
	switch a {
	case AllocationQuarter, AllocationHalf, AllocationThreeQuarters, AllocationFull:
		return true
	}
	return false
}

// Float returns the allocation as a plain factor
func (a Allocation) Float() float64 {
	return float64(a)
}

// String renders the allocation as a percentage, e.g. "75%"
func (a Allocation) String() string {
	return strconv.Itoa(int(float64(a)*100+0.5)) + "%"
}

// ParseAllocation accepts either a percentage ("50%", "50") or a factor ("0.5")
// Returns an error if the value is not one of the supported steps
func ParseAllocation(s string) (Allocation, error) {
	raw := strings.TrimSpace(s)
	percent := strings.HasSuffix(raw, "%")
	raw = strings.TrimSuffix(raw, "%")

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid allocation: %s", s)
	}
	if percent || v > 1 {
		v /= 100
	}

	alloc := Allocation(v)
	if !alloc.IsValid() {
		return 0, fmt.Errorf("invalid allocation: %s (must be 25%%, 50%%, 75%% or 100%%)", s)
	}
	return alloc, nil
}

// GetAllAllocations returns all valid allocations, largest first
func GetAllAllocations() []Allocation {
	return []Allocation{AllocationFull, AllocationThreeQuarters, AllocationHalf, AllocationQuarter}
}
