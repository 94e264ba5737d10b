package reconcile

import (
	"fmt"
	"sort"

	"github.com/kjeldahl/vidir/internal/listing"
)

// intentKind distinguishes the two ways an entry's edit can differ from a
// no-op: it was renamed, or its line was removed from the edited listing.
type intentKind int

const (
	intentRename intentKind = iota
	intentDelete
)

// intent is one classified difference between the pre- and post-edit
// listings, still carrying its originating id so duplicate-target collapse
// can order by ascending id (original listing order).
type intent struct {
	id   int
	kind intentKind
	from string
	to   string // empty for intentDelete
}

// classify implements §4.4 Step 1: for each pre-edit id, decide whether its
// post-edit state is a no-op, a rename, or a deletion. pre is assumed to be
// in ascending-id order, which classify preserves into the returned slice.
func classify(pre []listing.Entry, post map[int]listing.PostPath) []intent {
	intents := make([]intent, 0, len(pre))
	for _, e := range pre {
		p, ok := post[e.ID]
		if !ok {
			// Every pre-edit id is populated by listing.Parse (as either a
			// path or Deleted), so this only happens if the caller built
			// post by hand. Treat as unchanged rather than panic.
			continue
		}
		switch {
		case p.Deleted:
			intents = append(intents, intent{id: e.ID, kind: intentDelete, from: e.Path})
		case p.Path == e.Path:
			// no-op
		default:
			intents = append(intents, intent{id: e.ID, kind: intentRename, from: e.Path, to: p.Path})
		}
	}
	return intents
}

// collapseDuplicateTargets implements §4.4 Step 2. Rename intents sharing a
// destination are grouped; the highest id (the one latest in the original
// listing) keeps the clean destination, and every other member of the group
// is diverted to "<dest>~", "<dest>~1", "<dest>~2", ... in ascending-id
// order, skipping any name that already exists on disk or is already
// claimed by another intent in this run.
func collapseDuplicateTargets(intents []intent, exists func(string) bool) []intent {
	groups := make(map[string][]int)
	claimed := make(map[string]bool, len(intents))
	for i, it := range intents {
		if it.kind != intentRename {
			continue
		}
		groups[it.to] = append(groups[it.to], i)
		claimed[it.to] = true
	}

	for dest, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		sort.Slice(idxs, func(a, b int) bool { return intents[idxs[a]].id < intents[idxs[b]].id })
		losers := idxs[:len(idxs)-1]
		for _, li := range losers {
			diverted := nextDiversionName(dest, claimed, exists)
			claimed[diverted] = true
			intents[li].to = diverted
		}
	}
	return intents
}

// nextDiversionName finds the smallest-suffix diversion name for dest that
// is neither already claimed by another intent in this run nor already
// present on disk. The suffix sequence is "~", "~1", "~2", ... — never
// zero-based, never repeating the basename.
func nextDiversionName(dest string, claimed map[string]bool, exists func(string) bool) string {
	candidate := dest + "~"
	for n := 0; ; n++ {
		if n > 0 {
			candidate = fmt.Sprintf("%s~%d", dest, n)
		}
		if !claimed[candidate] && !exists(candidate) {
			return candidate
		}
	}
}
