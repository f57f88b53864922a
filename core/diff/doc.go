// Package diff computes keyed edit scripts between two ordered collections.
//
// Each element carries a string key (unique within its collection) and a payload that
// can be compared for equality. Compute produces a Script of deletes, inserts, moves
// and updates which, applied in order to the old collection, yields the new one.
//
// # Algorithm
//
//  1. Build key→index maps for both collections.
//  2. Keys only in old become deletes, keys only in new become inserts.
//  3. For keys in both, the old indices are read in new order. The longest increasing
//     subsequence of that sequence is kept in place; every other common key is moved.
//  4. Every common key whose payload changed is updated, whether or not it moved.
//
// The number of moves is therefore minimal: no common key that could stay in place is
// moved. When several stable subsequences of the same length exist, the one ending at
// the smallest old index is kept, which leaves the longest possible prefix of the old
// collection untouched.
//
// # Index Spaces
//
// Delete.From and Move.From address the old collection. Insert.To, Move.To and
// Update.To address the resulting collection.
//
// # Usage
//
//	script := diff.Compute(oldRows, newRows,
//	    func(r Row) string { return r.Key },
//	    func(a, b Row) bool { return a.Title == b.Title },
//	)
//	for _, op := range script.Ops() {
//	    fmt.Println(op)
//	}
package diff
