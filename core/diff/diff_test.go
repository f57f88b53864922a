package diff

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	key string
	val string
}

func itemKey(i item) string { return i.key }
func itemEqual(a, b item) bool { return a.val == b.val }
func compute(old, next []item) Script { return Compute(old, next, itemKey, itemEqual) }

func items(pairs ...string) []item {
	out := make([]item, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, item{key: pairs[i], val: pairs[i+1]})
	}
	return out
}

func keysOf(list []item) []string {
	out := make([]string, len(list))
	for i, it := range list {
		out[i] = it.key
	}
	return out
}

// TestCompute_Examples tests the canonical small transformations.
func TestCompute_Examples(t *testing.T) {
	tests := []struct {
		name     string
		old      []item
		next     []item
		expected Script
	}{
		{
			name: "delete and insert",
			old:  items("a", "X", "b", "Y"),
			next: items("b", "Y", "c", "Z"),
			expected: Script{
				Deletes: []Op{{Type: OpDelete, Key: "a", From: 0, To: -1}},
				Inserts: []Op{{Type: OpInsert, Key: "c", From: -1, To: 1}},
			},
		},
		{
			name: "swap is a single move",
			old:  items("a", "X", "b", "Y"),
			next: items("b", "Y", "a", "X"),
			expected: Script{
				Moves: []Op{{Type: OpMove, Key: "b", From: 1, To: 0}},
			},
		},
		{
			name: "update in place",
			old:  items("a", "X", "b", "Y"),
			next: items("a", "X", "b", "Y2"),
			expected: Script{
				Updates: []Op{{Type: OpUpdate, Key: "b", From: 1, To: 1}},
			},
		},
		{
			name: "move and update together",
			old:  items("a", "X", "b", "Y"),
			next: items("b", "Y2", "a", "X"),
			expected: Script{
				Moves:   []Op{{Type: OpMove, Key: "b", From: 1, To: 0}},
				Updates: []Op{{Type: OpUpdate, Key: "b", From: 1, To: 0}},
			},
		},
		{
			name: "empty old",
			old:  nil,
			next: items("a", "X", "b", "Y"),
			expected: Script{
				Inserts: []Op{
					{Type: OpInsert, Key: "a", From: -1, To: 0},
					{Type: OpInsert, Key: "b", From: -1, To: 1},
				},
			},
		},
		{
			name: "empty new",
			old:  items("a", "X", "b", "Y", "c", "Z"),
			next: nil,
			expected: Script{
				Deletes: []Op{
					{Type: OpDelete, Key: "c", From: 2, To: -1},
					{Type: OpDelete, Key: "b", From: 1, To: -1},
					{Type: OpDelete, Key: "a", From: 0, To: -1},
				},
			},
		},
		{
			name: "disjoint keys",
			old:  items("a", "X", "b", "Y"),
			next: items("c", "X", "d", "Y"),
			expected: Script{
				Deletes: []Op{
					{Type: OpDelete, Key: "b", From: 1, To: -1},
					{Type: OpDelete, Key: "a", From: 0, To: -1},
				},
				Inserts: []Op{
					{Type: OpInsert, Key: "c", From: -1, To: 0},
					{Type: OpInsert, Key: "d", From: -1, To: 1},
				},
			},
		},
		{
			name: "rotation keeps the old prefix",
			old:  items("a", "1", "b", "2", "c", "3", "d", "4"),
			next: items("c", "3", "d", "4", "a", "1", "b", "2"),
			expected: Script{
				Moves: []Op{
					{Type: OpMove, Key: "c", From: 2, To: 0},
					{Type: OpMove, Key: "d", From: 3, To: 1},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := compute(tt.old, tt.next)
			assert.Equal(t, tt.expected.Deletes, script.Deletes)
			assert.Equal(t, tt.expected.Inserts, script.Inserts)
			assert.Equal(t, tt.expected.Moves, script.Moves)
			assert.Equal(t, tt.expected.Updates, script.Updates)
		})
	}
}

// TestCompute_Idempotent tests that diffing a collection against itself yields nothing.
func TestCompute_Idempotent(t *testing.T) {
	list := items("a", "1", "b", "2", "c", "3")
	assert.True(t, compute(list, list).IsEmpty())
	assert.True(t, compute(nil, nil).IsEmpty())
}

// TestCompute_DoesNotMutateInputs tests that inputs are left untouched.
func TestCompute_DoesNotMutateInputs(t *testing.T) {
	old := items("a", "1", "b", "2", "c", "3")
	next := items("c", "3", "a", "9", "d", "4")
	oldCopy := append([]item(nil), old...)
	nextCopy := append([]item(nil), next...)

	compute(old, next)

	assert.Equal(t, oldCopy, old)
	assert.Equal(t, nextCopy, next)
}

// TestScript_Ops tests that Ops flattens edits in application order.
func TestScript_Ops(t *testing.T) {
	script := compute(items("a", "1", "b", "2", "c", "3"), items("c", "3", "b", "9", "d", "4"))

	var types []OpType
	for _, op := range script.Ops() {
		types = append(types, op.Type)
	}
	assert.Equal(t, []OpType{OpDelete, OpInsert, OpMove, OpUpdate}, types)
	assert.Equal(t, 4, script.Len())
	assert.Equal(t, "delete(a@0)", script.Deletes[0].String())
	assert.Equal(t, "move(c 2->0)", script.Moves[0].String())
}

// TestLongestIncreasing tests stable subsequence selection and its tie-break.
func TestLongestIncreasing(t *testing.T) {
	tests := []struct {
		seq      []int
		expected []bool
	}{
		{seq: nil, expected: []bool{}},
		{seq: []int{0, 1, 2}, expected: []bool{true, true, true}},
		{seq: []int{1, 0}, expected: []bool{false, true}},
		{seq: []int{2, 0, 1}, expected: []bool{false, true, true}},
		{seq: []int{2, 3, 0, 1}, expected: []bool{false, false, true, true}},
		{seq: []int{0, 4, 1, 2, 3}, expected: []bool{true, false, true, true, true}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.seq), func(t *testing.T) {
			assert.Equal(t, tt.expected, longestIncreasing(tt.seq))
		})
	}
}

// TestCompute_RandomRoundTrip tests that applying the script reproduces the target and
// that the number of moves equals the common count minus the stable subsequence length.
func TestCompute_RandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		old := randomItems(rng, 12)
		next := randomItems(rng, 12)

		script := compute(old, next)
		result, err := Apply(old, script, next)
		require.NoError(t, err, "round %d", round)
		assert.Equal(t, keysOf(next), keysOf(result), "round %d", round)
		for i := range next {
			assert.True(t, itemEqual(next[i], result[i]), "round %d index %d", round, i)
		}

		common := len(old) - len(script.Deletes)
		assert.Equal(t, common-stableLength(old, next), len(script.Moves), "round %d", round)
	}
}

func randomItems(rng *rand.Rand, universe int) []item {
	perm := rng.Perm(universe)
	n := rng.Intn(universe + 1)
	out := make([]item, n)
	for i := 0; i < n; i++ {
		out[i] = item{key: fmt.Sprintf("k%d", perm[i]), val: fmt.Sprint(rng.Intn(3))}
	}
	return out
}

// stableLength computes the LIS length with a quadratic reference implementation.
func stableLength(old, next []item) int {
	pos := make(map[string]int, len(old))
	for i, it := range old {
		pos[it.key] = i
	}
	var seq []int
	for _, it := range next {
		if i, ok := pos[it.key]; ok {
			seq = append(seq, i)
		}
	}
	best := 0
	dp := make([]int, len(seq))
	for i := range seq {
		dp[i] = 1
		for j := 0; j < i; j++ {
			if seq[j] < seq[i] && dp[j]+1 > dp[i] {
				dp[i] = dp[j] + 1
			}
		}
		if dp[i] > best {
			best = dp[i]
		}
	}
	return best
}
