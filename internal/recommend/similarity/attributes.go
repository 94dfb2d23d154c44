// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package similarity

import (
	"math"
	"strings"

	"github.com/tomtom215/cinecase/internal/models"
)

// Jaccard computes |A ∩ B| / |A ∪ B| over the distinct values of a and b.
// Comparison is case-sensitive. Returns 0 when either side is empty.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := toSet(a)
	setB := toSet(b)

	intersection := 0
	for s := range setA {
		if _, ok := setB[s]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// NameJaccard is Jaccard over the names of two credit lists.
func NameJaccard(a, b []models.Person) float64 {
	return Jaccard(models.Names(a), models.Names(b))
}

// SharesAnyName returns 1 if the two credit lists have at least one name in
// common and 0 otherwise, including when either list is empty.
func SharesAnyName(a, b []models.Person) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	names := toSet(models.Names(a))
	for i := range b {
		if _, ok := names[b[i].Name]; ok {
			return 1
		}
	}
	return 0
}

// LinearDecay scores two numeric values by their absolute difference:
// 1 - |v1-v2|/cutoff, reaching 0 at or beyond the cutoff. A value of 0 on
// either side is the unset sentinel and yields 0. A non-positive cutoff
// yields 0.
func LinearDecay(v1, v2, cutoff float64) float64 {
	if v1 == 0 || v2 == 0 || cutoff <= 0 {
		return 0
	}

	diff := math.Abs(v1 - v2)
	if diff >= cutoff {
		return 0
	}
	return 1 - diff/cutoff
}

// YearDecay is LinearDecay for integer years.
func YearDecay(y1, y2 int, cutoff float64) float64 {
	return LinearDecay(float64(y1), float64(y2), cutoff)
}

// CategoricalMatch returns 1 for a case-insensitive exact match and 0
// otherwise. An empty value on either side yields 0.
func CategoricalMatch(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if strings.EqualFold(a, b) {
		return 1
	}
	return 0
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
