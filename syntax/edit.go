package syntax

import "sort"

// Edit replaces the byte range [Start, End) of the original text with Text.
// Fixes are expressed as edits over the original text rather than by
// re-serializing the tree, so untouched bytes stay untouched.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Apply performs a set of edits on src back to front, returning the new text
// and the number of edits applied. Edits with identical spans are collapsed
// into one; an edit that overlaps an already-applied edit or falls outside
// the text is skipped (it will be recomputed from the fresh tree on the next
// fix pass).
func Apply(src []byte, edits []Edit) ([]byte, int) {
	if len(edits) == 0 {
		return src, 0
	}

	seen := make(map[[2]int]bool, len(edits))
	unique := make([]Edit, 0, len(edits))
	for _, e := range edits {
		key := [2]int{e.Start, e.End}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, e)
	}

	sort.Slice(unique, func(i, j int) bool { return unique[i].Start > unique[j].Start })

	out := make([]byte, len(src))
	copy(out, src)
	applied := 0
	lastStart := len(src) + 1

	for _, e := range unique {
		if e.Start < 0 || e.End < e.Start || e.End > len(src) {
			continue
		}
		if e.End > lastStart {
			continue
		}
		out = append(out[:e.Start], append([]byte(e.Text), out[e.End:]...)...)
		lastStart = e.Start
		applied++
	}

	return out, applied
}
