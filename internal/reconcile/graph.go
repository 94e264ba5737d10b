package reconcile

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// runner carries the mutable state threaded through a single Reconcile
// execution: the accumulated step log, the stash bookkeeping needed to
// label unstash renames correctly, and the options controlling clobber and
// existence checks.
type runner struct {
	opts    Options
	log     zerolog.Logger
	exists  func(string) bool
	steps   []Step
	stashed map[string]string // stash path -> handle, consumed on unstash
}

// walkRenameGraph implements §4.4 Step 3: it decomposes the rename graph
// (nodes are paths, edges are "from -> to") into chains and cycles and
// executes each destination-first, stashing exactly one edge per cycle to
// break it into a chain. renameOps and reverseOps are the "from -> to" and
// "to -> from" views of the same edge set built by buildOpsMaps; renameOps
// is consumed (drained) as its entries are processed, while reverseOps is
// read to find predecessors and updated to splice stash paths in.
//
// This mirrors the classic vidir/hsync rename-graph walk: starting from an
// arbitrary remaining edge, follow successors until either a terminal node
// (a chain) or the starting node again (a cycle) is reached, then drain the
// path backward so every rename happens only after its destination slot has
// been vacated.
func (rn *runner) walkRenameGraph(renameOps, reverseOps map[string]string) {
	for from, to := range renameOps {
		if from == to {
			delete(renameOps, from)
			continue
		}

		start := from
		pred, cur := from, to
		for cur != start {
			next, ok := renameOps[cur]
			if !ok {
				break
			}
			pred, cur = cur, next
		}

		if cur == start {
			// Cycle: the edge pred -> start closes the loop. Stash pred's
			// file so its slot can be filled by the rest of the chain, then
			// splice the stash in as the source that ultimately fills
			// `start` once the chain drains back to it.
			stashPath, handle, err := rn.stash(pred)
			if err != nil {
				rn.recordSkippedCycle(renameOps, reverseOps, start, pred, err)
				continue
			}
			rn.stashed[stashPath] = handle
			reverseOps[start] = stashPath
			delete(renameOps, pred)
			cur = pred
			pred = reverseOps[pred]
		}

		for pred != "" {
			rn.renameOne(pred, cur)
			delete(renameOps, pred)
			cur = pred
			pred = reverseOps[pred]
		}
	}
}

// stash relocates path to a generated temporary name in the same directory
// (falling back to the system temp directory on collision) so a cycle can
// be broken. It records a Step and returns the stash path and its
// correlating handle.
func (rn *runner) stash(path string) (stashPath string, handle string, err error) {
	stashPath = generateStashName(path, rn.exists)
	handle = newStashHandle()

	if mkErr := ensureParentDir(stashPath); mkErr != nil {
		stepErr := fmt.Errorf("%w: %s: %w", ErrStash, path, mkErr)
		rn.steps = append(rn.steps, Step{Kind: StepStash, From: path, To: stashPath, Handle: handle, Err: stepErr})
		rn.log.Error().Str("path", path).Err(mkErr).Msg("stash: create parent directory failed")
		return "", "", stepErr
	}

	if err := os.Rename(path, stashPath); err != nil {
		stepErr := fmt.Errorf("%w: %s -> %s: %v", ErrStash, path, stashPath, err)
		rn.steps = append(rn.steps, Step{Kind: StepStash, From: path, To: stashPath, Handle: handle, Err: stepErr})
		rn.log.Error().Str("path", path).Str("stash_path", stashPath).Err(err).Msg("stash failed")
		return "", "", stepErr
	}

	rn.steps = append(rn.steps, Step{Kind: StepStash, From: path, To: stashPath, Handle: handle})
	rn.log.Info().Str("path", path).Str("stash_path", stashPath).Str("handle", handle).Msg("stashed to break rename cycle")
	return stashPath, handle, nil
}

// renameOne performs one rename edge of the drained graph, creating the
// destination's parent directory first. If `from` is a stash path created
// earlier in this run, the step is recorded as an Unstash instead of a
// plain Rename so the log and Result correctly describe cycle recovery.
func (rn *runner) renameOne(from, to string) {
	kind := StepRename
	handle := ""
	if h, ok := rn.stashed[from]; ok {
		kind = StepUnstash
		handle = h
		delete(rn.stashed, from)
	}

	if err := ensureParentDir(to); err != nil {
		rn.record(kind, from, to, handle, rn.wrapErr(kind, fmt.Errorf("%s -> %s: %w", from, to, err)))
		return
	}

	if !rn.opts.Clobber && rn.exists(to) {
		rn.log.Warn().Str("from", from).Str("to", to).Msg("destination exists, skipping rename")
		rn.record(kind, from, to, handle, rn.wrapErr(kind, fmt.Errorf("destination already exists: %s", to)))
		return
	}

	if err := os.Rename(from, to); err != nil {
		rn.record(kind, from, to, handle, rn.wrapErr(kind, fmt.Errorf("%s -> %s: %w", from, to, err)))
		return
	}

	rn.log.Info().Str("from", from).Str("to", to).Str("kind", kind.String()).Msg("renamed")
	rn.record(kind, from, to, handle, nil)
}

func (rn *runner) wrapErr(kind StepKind, err error) error {
	if kind == StepUnstash {
		return fmt.Errorf("%w: %w", ErrUnstash, err)
	}
	return fmt.Errorf("%w: %w", ErrRename, err)
}

func (rn *runner) record(kind StepKind, from, to, handle string, err error) {
	if err != nil {
		rn.log.Error().Str("from", from).Str("to", to).Err(err).Msg("step failed")
	}
	rn.steps = append(rn.steps, Step{Kind: kind, From: from, To: to, Handle: handle, Err: err})
}

// recordSkippedCycle reports a StashError and abandons the remaining
// intents of the cycle that failed to stash: per §7, the affected cycle is
// skipped in its entirety rather than partially applied.
func (rn *runner) recordSkippedCycle(renameOps, reverseOps map[string]string, start, brokenEdgeSource string, err error) {
	rn.log.Error().Str("cycle_start", start).Err(err).Msg("stash failed, skipping entire cycle")

	cur := start
	for {
		next, ok := renameOps[cur]
		delete(renameOps, cur)
		delete(reverseOps, next)
		if !ok || next == start {
			break
		}
		cur = next
	}
	_ = brokenEdgeSource
}

// executeDelete removes path and records the step. os.Remove already gives
// §4.4's deletion semantics for both cases it needs to cover: it removes a
// regular file outright and removes a directory only if empty, which is
// exactly the non-recursive removal the reconciler wants (it deletes only
// what the user saw in the listing, never a subtree it never enumerated).
// The Lstat first is just to produce a clean "doesn't exist" error instead
// of os.Remove's less obvious one.
func (rn *runner) executeDelete(path string) {
	var err error
	if _, statErr := os.Lstat(path); statErr != nil {
		err = fmt.Errorf("stat %s: %v", path, statErr)
	} else {
		err = os.Remove(path)
	}

	if err != nil {
		wrapped := fmt.Errorf("%w: %s: %v", ErrDelete, path, err)
		rn.log.Error().Str("path", path).Err(err).Msg("delete failed")
		rn.steps = append(rn.steps, Step{Kind: StepDelete, From: path, Err: wrapped})
		return
	}

	rn.log.Info().Str("path", path).Msg("deleted")
	rn.steps = append(rn.steps, Step{Kind: StepDelete, From: path})
}
