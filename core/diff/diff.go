package diff

import "sort"

// Compute returns the edit script transforming old into next.
//
// key must return a value unique within each collection; callers validate that
// beforehand. equal compares payloads of two elements sharing a key. Neither input
// slice is modified.
func Compute[T any](old, next []T, key func(T) string, equal func(a, b T) bool) Script {
	var script Script

	// Fast path: same keys in the same order can only produce updates.
	if sameKeyOrder(old, next, key) {
		for i := range next {
			if !equal(old[i], next[i]) {
				script.Updates = append(script.Updates, Op{Type: OpUpdate, Key: key(next[i]), From: i, To: i})
			}
		}
		return script
	}

	oldIndex := make(map[string]int, len(old))
	for i, item := range old {
		oldIndex[key(item)] = i
	}
	newIndex := make(map[string]int, len(next))
	for i, item := range next {
		newIndex[key(item)] = i
	}

	// Deletes, walked backwards so they come out in descending order.
	for i := len(old) - 1; i >= 0; i-- {
		k := key(old[i])
		if _, ok := newIndex[k]; !ok {
			script.Deletes = append(script.Deletes, Op{Type: OpDelete, Key: k, From: i, To: -1})
		}
	}

	// Inserts and the old-index sequence of common keys, both in new order.
	var (
		commonNew []int
		commonOld []int
	)
	for j, item := range next {
		k := key(item)
		i, ok := oldIndex[k]
		if !ok {
			script.Inserts = append(script.Inserts, Op{Type: OpInsert, Key: k, From: -1, To: j})
			continue
		}
		commonNew = append(commonNew, j)
		commonOld = append(commonOld, i)
	}

	stable := longestIncreasing(commonOld)
	for p, j := range commonNew {
		i := commonOld[p]
		k := key(next[j])
		if !stable[p] {
			script.Moves = append(script.Moves, Op{Type: OpMove, Key: k, From: i, To: j})
		}
		if !equal(old[i], next[j]) {
			script.Updates = append(script.Updates, Op{Type: OpUpdate, Key: k, From: i, To: j})
		}
	}

	return script
}

func sameKeyOrder[T any](old, next []T, key func(T) string) bool {
	if len(old) != len(next) {
		return false
	}
	for i := range old {
		if key(old[i]) != key(next[i]) {
			return false
		}
	}
	return true
}

// longestIncreasing marks the members of a longest strictly increasing subsequence
// of seq using patience sorting. The subsequence is rebuilt from the smallest final
// tail, so ties resolve towards the lowest values.
func longestIncreasing(seq []int) []bool {
	keep := make([]bool, len(seq))
	if len(seq) == 0 {
		return keep
	}

	// tails[l] is the position in seq of the smallest tail of an increasing run of length l+1.
	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))

	for i, v := range seq {
		pile := sort.Search(len(tails), func(n int) bool { return seq[tails[n]] >= v })
		if pile > 0 {
			prev[i] = tails[pile-1]
		} else {
			prev[i] = -1
		}
		if pile == len(tails) {
			tails = append(tails, i)
		} else {
			tails[pile] = i
		}
	}

	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		keep[i] = true
	}
	return keep
}
