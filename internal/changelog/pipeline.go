package changelog

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Request pairs one commit with its pre-resolved pull request hint
// (zero when the caller has none).
type Request struct {
	Commit Commit
	PRHint int
}

// ClassifyAll classifies commits concurrently with at most maxParallel
// lookups in flight. The returned outcomes are index-aligned with the
// input, so the caller's traversal order survives the fan-out; chain
// merging in Consolidate depends on that order.
func ClassifyAll(ctx context.Context, requests []Request, opts Options, lookup PRLookup, maxParallel int) []Outcome {
	if maxParallel < 1 {
		maxParallel = 1
	}

	outcomes := make([]Outcome, len(requests))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			// Classification degrades lookup failures to "no data" and
			// never errors, so one slow or broken commit cannot cancel
			// the others.
			outcomes[i] = Classify(ctx, req.Commit, req.PRHint, opts, lookup)
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}

// Buckets splits classification outcomes into the two Generate inputs,
// preserving the outcome order.
func Buckets(outcomes []Outcome) (dependencyLines, otherLines []string) {
	for _, outcome := range outcomes {
		switch outcome.Kind {
		case OutcomeDependencyUpdate:
			dependencyLines = append(dependencyLines, outcome.UpdateLines...)
		case OutcomeGenericChange:
			otherLines = append(otherLines, outcome.ChangeLine)
		}
	}
	return dependencyLines, otherLines
}
