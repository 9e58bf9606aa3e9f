package drywell

import (
	"strconv"
	"strings"
)

// Names of the well shaft cylinders in an exported set.
const (
	NameChamber       = "well_chamber"
	NameAggregateWell = "well_aggregate"
	NameBelowWell     = "well_below"
)

const (
	aggregatePrefix = "tube_r"
	belowWellPrefix = "tube_below_r"
	rowSep          = "_z"
)

// TubeName returns the set name of cell (i, j) of zone z.
func TubeName(z Zone, i, j int) string {
	prefix := aggregatePrefix
	if z == BelowWell {
		prefix = belowWellPrefix
	}
	return prefix + strconv.Itoa(i) + rowSep + strconv.Itoa(j)
}

// ParseTubeName is the inverse of TubeName. ok is false if name was not
// returned by TubeName for some non-negative i and j.
func ParseTubeName(name string) (z Zone, i, j int, ok bool) {
	rest, found := strings.CutPrefix(name, belowWellPrefix)
	if found {
		z = BelowWell
	} else if rest, found = strings.CutPrefix(name, aggregatePrefix); !found {
		return 0, 0, 0, false
	}
	si, sj, found := strings.Cut(rest, rowSep)
	if !found {
		return 0, 0, 0, false
	}
	i, ok = parseIndex(si)
	if !ok {
		return 0, 0, 0, false
	}
	j, ok = parseIndex(sj)
	if !ok {
		return 0, 0, 0, false
	}
	return z, i, j, true
}

// parseIndex accepts only the canonical decimal form of a non-negative int.
func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || strconv.Itoa(n) != s {
		return 0, false
	}
	return n, true
}
