package util

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MaxRangeValues caps how many values a single ExpandRange call may produce.
const MaxRangeValues = 4096

// ExpandRange expands a range specification into sorted, unique values.
//   - "1-5" -> [1, 2, 3, 4, 5]
//   - "1-3,5,7-9" -> [1, 2, 3, 5, 7, 8, 9]
//
// Specs that would yield more than MaxRangeValues values are rejected.
func ExpandRange(spec string) ([]int, error) {
	if spec == "" {
		return nil, nil
	}

	seen := make(map[int]bool)
	var result []int
	add := func(v int) {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid value in %q: %v", part, err)
		}
		if !isRange {
			add(start)
			continue
		}
		end, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("invalid end value in range %q: %v", part, err)
		}
		if start > end {
			return nil, fmt.Errorf("start value %d greater than end value %d in range %s", start, end, part)
		}
		if end-start >= MaxRangeValues {
			return nil, fmt.Errorf("range %s spans more than %d values", part, MaxRangeValues)
		}
		for i := start; i <= end; i++ {
			add(i)
		}
		if len(result) > MaxRangeValues {
			return nil, fmt.Errorf("range spec %q expands to more than %d values", spec, MaxRangeValues)
		}
	}

	sort.Ints(result)
	return result, nil
}

// CompactRange compacts a list of integers into range notation
// [1, 2, 3, 5, 7, 8, 9] -> "1-3,5,7-9"
func CompactRange(values []int) string {
	if len(values) == 0 {
		return ""
	}

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)

	var parts []string
	start, end := sorted[0], sorted[0]
	flush := func() {
		if start == end {
			parts = append(parts, strconv.Itoa(start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start, end))
		}
	}
	for _, v := range sorted[1:] {
		switch {
		case v == end:
		case v == end+1:
			end = v
		default:
			flush()
			start, end = v, v
		}
	}
	flush()

	return strings.Join(parts, ",")
}

// ValidateVLANID checks an 802.1Q VLAN id (1-4094).
func ValidateVLANID(id int) error {
	if id < 1 || id > 4094 {
		return fmt.Errorf("VLAN ID must be between 1 and 4094, got %d", id)
	}
	return nil
}

// ExpandVLANRange expands VLAN range notation and validates every id.
// "100-102,200" -> [100, 101, 102, 200]
func ExpandVLANRange(spec string) ([]int, error) {
	vlans, err := ExpandRange(spec)
	if err != nil {
		return nil, err
	}
	for _, v := range vlans {
		if err := ValidateVLANID(v); err != nil {
			return nil, err
		}
	}
	return vlans, nil
}
