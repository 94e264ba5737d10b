package reconcile

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/kjeldahl/vidir/internal/listing"
)

// Run diffs pre against post, resolves duplicate targets and rename
// cycles, and executes the resulting renames and deletions. It implements
// §4.4 in full: classify, collapse duplicate targets, order deletions that
// collide with a rename target ahead of that rename, walk the rename graph
// chain/cycle by chain/cycle, then apply every remaining deletion.
//
// Run always attempts every independent step; a failure in one rename or
// delete never aborts the others. Inspect Result.Failed() (or Result.OK())
// to learn whether anything went wrong.
func Run(pre []listing.Entry, post map[int]listing.PostPath, opts Options, logger zerolog.Logger) Result {
	rn := &runner{
		opts:    opts,
		log:     logger,
		exists:  opts.pathExists(),
		stashed: make(map[string]string),
	}

	intents := classify(pre, post)
	intents = collapseDuplicateTargets(intents, rn.exists)

	renames, deletes := splitIntents(intents)
	renameTargets := renameTargetSet(renames)

	// A deletion whose path is also some rename's destination must happen
	// before that rename, or the rename would either collide with (when not
	// clobbering) or silently destroy a file that was never meant to be
	// deleted by this run. Diversion names from collapseDuplicateTargets
	// never land on such a path, since they skip every path present on disk.
	var deferredDeletes []string
	for _, d := range deletes {
		if renameTargets[d.from] {
			rn.executeDelete(d.from)
			continue
		}
		deferredDeletes = append(deferredDeletes, d.from)
	}

	renameOps, reverseOps := buildOpsMaps(renames)
	rn.walkRenameGraph(renameOps, reverseOps)

	for _, path := range deferredDeletes {
		rn.executeDelete(path)
	}

	return Result{Steps: rn.steps}
}

// RunWithDiscardLogger is a convenience for callers (and tests) that don't
// want to wire a logger.
func RunWithDiscardLogger(pre []listing.Entry, post map[int]listing.PostPath, opts Options) Result {
	return Run(pre, post, opts, zerolog.New(io.Discard))
}

// splitIntents partitions classified intents into renames and deletes,
// preserving their relative order.
func splitIntents(intents []intent) (renames, deletes []intent) {
	for _, it := range intents {
		switch it.kind {
		case intentRename:
			renames = append(renames, it)
		case intentDelete:
			deletes = append(deletes, it)
		}
	}
	return renames, deletes
}

// renameTargetSet returns the set of destinations any rename in renames
// will occupy.
func renameTargetSet(renames []intent) map[string]bool {
	set := make(map[string]bool, len(renames))
	for _, it := range renames {
		set[it.to] = true
	}
	return set
}

// buildOpsMaps builds the forward ("from -> to") and reverse ("to ->
// from") edge maps walkRenameGraph consumes. classify never emits a
// self-rename (from == to), but one passed in is kept as a degenerate edge
// so walkRenameGraph can drop it without a special case at the call site.
func buildOpsMaps(renames []intent) (renameOps, reverseOps map[string]string) {
	renameOps = make(map[string]string, len(renames))
	reverseOps = make(map[string]string, len(renames))
	for _, it := range renames {
		renameOps[it.from] = it.to
		reverseOps[it.to] = it.from
	}
	return renameOps, reverseOps
}
