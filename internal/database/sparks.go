// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package database

import (
	"sort"
	"strconv"
	"strings"
)

// Spark filter SQL generation.
//
// Filters arrive as groups of encoded values (factor_id*10 + level). A bare
// value below 10 is a wildcard: "any factor at this level". Wildcards expand
// against factor ids 1..maxFactorID. Multi-group logic deliberately trades
// exactness for predicates a GIN index can serve (`&&`, `cardinality`);
// the overlapping-group cases are cardinality heuristics, not a proof that
// a distinct element exists per group.

// maxFactorID bounds wildcard expansion; factor ids in the game data are
// 1..100.
const maxFactorID = 100

// ParseSparkGroups turns raw repeatable-parameter groups into integer
// groups. Non-numeric tokens are skipped; empty groups are dropped.
func ParseSparkGroups(groups []string) [][]int32 {
	out := make([][]int32, 0, len(groups))
	for _, raw := range groups {
		var vals []int32
		for _, tok := range strings.Split(raw, ",") {
			v, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 32)
			if err != nil {
				continue
			}
			vals = append(vals, int32(v))
		}
		if len(vals) > 0 {
			out = append(out, vals)
		}
	}
	return out
}

// ParseFactorIDs flattens raw groups into a single list of factor type ids,
// used by the optional scoring filters.
func ParseFactorIDs(groups []string) []int32 {
	var out []int32
	for _, raw := range groups {
		for _, tok := range strings.Split(raw, ",") {
			v, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 32)
			if err != nil {
				continue
			}
			out = append(out, int32(v))
		}
	}
	return out
}

// splitSpecs separates explicit encoded values from wildcard levels.
func splitSpecs(sparks []int32) (explicit, wildcards []int32) {
	for _, s := range sparks {
		if s >= 10 {
			explicit = append(explicit, s)
		} else {
			wildcards = append(wildcards, s)
		}
	}
	return explicit, wildcards
}

// expandSparkGroup resolves a group to its full set of concrete encoded
// values: explicit values plus every factor id at each wildcard level.
// The result is sorted and deduplicated.
func expandSparkGroup(sparks []int32) []int32 {
	explicit, wildcards := splitSpecs(sparks)

	result := make([]int32, 0, len(explicit)+len(wildcards)*maxFactorID)
	result = append(result, explicit...)
	for factorID := int32(1); factorID <= maxFactorID; factorID++ {
		for _, level := range wildcards {
			result = append(result, factorID*10+level)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	dedup := result[:0]
	for i, v := range result {
		if i == 0 || v != result[i-1] {
			dedup = append(dedup, v)
		}
	}
	return dedup
}

// expandFactorLevels expands factor type ids to every encoded value at
// levels 1..9, for the GIN pre-filter on optional scoring.
func expandFactorLevels(factorIDs []int32) []int32 {
	out := make([]int32, 0, len(factorIDs)*9)
	for _, id := range factorIDs {
		for level := int32(1); level <= 9; level++ {
			out = append(out, id*10+level)
		}
	}
	return out
}

func toSet(vals []int32) map[int32]struct{} {
	set := make(map[int32]struct{}, len(vals))
	for _, v := range vals {
		set[v] = struct{}{}
	}
	return set
}

func setsEqual(a, b map[int32]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for v := range a {
		if _, ok := b[v]; !ok {
			return false
		}
	}
	return true
}

func setsDisjoint(a, b map[int32]struct{}) bool {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	for v := range small {
		if _, ok := large[v]; ok {
			return false
		}
	}
	return true
}

// appendSingleGroupSpark appends the single-group predicate: an overlap
// test on the explicit values, a second overlap test on the wildcard
// expansion, ORed when both are present.
func appendSingleGroupSpark(b *Builder, column string, sparks []int32) {
	if len(sparks) == 0 {
		return
	}

	explicit, wildcards := splitSpecs(sparks)

	b.Push(" AND (")
	hasCondition := false

	if len(explicit) > 0 {
		hasCondition = true
		b.Push(column).Push(" && ").Bind(explicit)
	}

	if len(wildcards) > 0 {
		if hasCondition {
			b.Push(" OR ")
		}
		expanded := make([]int32, 0, len(wildcards)*maxFactorID)
		for factorID := int32(1); factorID <= maxFactorID; factorID++ {
			for _, level := range wildcards {
				expanded = append(expanded, factorID*10+level)
			}
		}
		b.Push(column).Push(" && ").Bind(expanded)
	}

	b.Push(")")
}

// appendMainParentSpark appends the predicate for the scalar main-parent
// factor columns: equality against the explicit values, and a modulo test
// on the minimum wildcard level. The modulo form is an approximation the
// data model has always used; it compares only the level digit.
func appendMainParentSpark(b *Builder, column string, sparks []int32) {
	if len(sparks) == 0 {
		return
	}

	explicit, wildcards := splitSpecs(sparks)

	b.Push(" AND (")
	hasCondition := false

	if len(explicit) > 0 {
		hasCondition = true
		b.Push(column).Push(" = ANY(").Bind(explicit).Push(")")
	}

	if len(wildcards) > 0 {
		if hasCondition {
			b.Push(" OR ")
		}
		minWildcard := wildcards[0]
		for _, w := range wildcards[1:] {
			if w < minWildcard {
				minWildcard = w
			}
		}
		b.Push("(").Push(column).Push(" % 10 >= ").Bind(minWildcard).Push(")")
	}

	b.Push(")")
}

// appendNineStarSpark appends the fixed shortcut for "any 9-star stat
// spark": the six stat categories encoded as stat_type*100 + star.
func appendNineStarSpark(b *Builder, column string, desiredStar int32) {
	values := make([]int32, 0, 6)
	for statType := int32(1); statType <= 6; statType++ {
		values = append(values, statType*100+desiredStar)
	}
	b.Push(" AND ").Push(column).Push(" && ").Bind(values)
}

// appendIntersectCardinality appends
// cardinality(ARRAY(SELECT unnest(column) INTERSECT SELECT unnest($v))) >= $n.
func appendIntersectCardinality(b *Builder, column string, values []int32, n int32) {
	b.Push("cardinality(ARRAY(SELECT unnest(").
		Push(column).
		Push(") INTERSECT SELECT unnest(").
		Bind(values).
		Push("))) >= ").
		Bind(n)
}

// appendMultiGroupSpark appends the combined predicate for N spark filter
// groups against one array column. Cases, in order:
//
//   - one group: the single-group predicate
//   - all groups expand to the same set: intersect-cardinality >= N
//   - two disjoint groups: two independent overlap tests
//   - two overlapping groups: per-group intersect-cardinality >= 1 plus a
//     total column cardinality >= 2 (heuristic)
//   - three+ pairwise disjoint groups: per-group overlap tests
//   - three+ with any overlap: intersect with the union of all values,
//     cardinality >= N (heuristic)
func appendMultiGroupSpark(b *Builder, column string, groups [][]int32) {
	if len(groups) == 0 {
		return
	}
	if len(groups) == 1 {
		appendSingleGroupSpark(b, column, groups[0])
		return
	}

	expanded := make([][]int32, len(groups))
	sets := make([]map[int32]struct{}, len(groups))
	for i, g := range groups {
		expanded[i] = expandSparkGroup(g)
		sets[i] = toSet(expanded[i])
	}

	n := int32(len(groups))

	allIdentical := true
	for i := 1; i < len(sets); i++ {
		if !setsEqual(sets[i-1], sets[i]) {
			allIdentical = false
			break
		}
	}
	if allIdentical {
		// N copies of the same requirement: the record needs at least N
		// distinct matching elements.
		b.Push(" AND ")
		appendIntersectCardinality(b, column, expanded[0], n)
		return
	}

	if len(groups) == 2 {
		if setsDisjoint(sets[0], sets[1]) {
			b.Push(" AND (").Push(column).Push(" && ").Bind(expanded[0]).
				Push(") AND (").Push(column).Push(" && ").Bind(expanded[1]).Push(")")
		} else {
			b.Push(" AND ")
			appendIntersectCardinality(b, column, expanded[0], 1)
			b.Push(" AND ")
			appendIntersectCardinality(b, column, expanded[1], 1)
			b.Push(" AND cardinality(").Push(column).Push(") >= 2")
		}
		return
	}

	allDisjoint := true
	for i := 0; i < len(sets) && allDisjoint; i++ {
		for j := i + 1; j < len(sets); j++ {
			if !setsDisjoint(sets[i], sets[j]) {
				allDisjoint = false
				break
			}
		}
	}

	if allDisjoint {
		b.Push(" AND (")
		for i, vals := range expanded {
			if i > 0 {
				b.Push(" AND ")
			}
			b.Push(column).Push(" && ").Bind(vals)
		}
		b.Push(")")
		return
	}

	union := make([]int32, 0)
	seen := make(map[int32]struct{})
	for _, vals := range expanded {
		for _, v := range vals {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				union = append(union, v)
			}
		}
	}
	sort.Slice(union, func(i, j int) bool { return union[i] < union[j] })

	b.Push(" AND ")
	appendIntersectCardinality(b, column, union, n)
}
