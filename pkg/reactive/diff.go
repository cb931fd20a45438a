package reactive

// Diff computes the reorder diff between two arrangements of the same elements.
//
// For each index of after, the matching index of before is the first
// occurrence of the element not already matched, so duplicates are paired by
// position. Only slots whose position changed are reported, ordered by After.
func Diff(before, after []any) []Move {
	used := make([]bool, len(before))
	var moves []Move
	for i, v := range after {
		k := -1
		for j := range before {
			if !used[j] && same(before[j], v) {
				k = j
				break
			}
		}
		if k < 0 {
			continue
		}
		used[k] = true
		if k != i {
			moves = append(moves, Move{Before: k, After: i})
		}
	}
	return moves
}

// Permute applies moves to a copy of before: each slot After receives the
// element found at Before. Slots not named by a move keep their element.
func Permute[T any](before []T, moves []Move) []T {
	out := make([]T, len(before))
	copy(out, before)
	for _, m := range moves {
		out[m.After] = before[m.Before]
	}
	return out
}
