package plugin

import (
	"strconv"
	"strings"
)

// CompareVersions orders two plugin versions. It returns a negative number
// if a < b, zero if equal, and a positive number if a > b.
//
// Versions are split on dots and compared component-wise: when both
// components are decimal integers they compare numerically (so 1.10 > 1.2),
// when neither is they compare as strings, and a numeric component always
// orders below a non-numeric one (2 < 1a, keeping mixed comparisons free of
// cycles). A version with fewer components orders below one that extends it
// (1.2 < 1.2.0), and the empty version orders below everything. The ordering
// is total, so "latest" resolution is unambiguous across repeated calls.
func CompareVersions(a, b string) int {
	if a == b {
		return 0
	}

	ac := splitVersion(a)
	bc := splitVersion(b)

	for i := 0; i < len(ac) && i < len(bc); i++ {
		if c := compareComponent(ac[i], bc[i]); c != 0 {
			return c
		}
	}
	if c := len(ac) - len(bc); c != 0 {
		return c
	}
	// Components compared equal but the strings differ (e.g. "1.01" vs
	// "1.1"); break the tie on the raw strings to keep the order total.
	return strings.Compare(a, b)
}

func splitVersion(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ".")
}

func compareComponent(a, b string) int {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
