// Package execute applies mirror plans to a scene host.
//
// Apply is two-phase. Every target, and every source whose transform feeds a
// counterpart, is checked first; a single stale or read-only entity rejects
// the whole plan before anything is written. The
// writes then run inside one host transaction, so a failing write rolls back
// the others and a committed plan is one undo step.
package execute

import (
	"context"
	"fmt"
	"log/slog"

	"quickflip/internal/diagnostic"
	"quickflip/internal/plan"
)

// Options configure an Executor.
type Options struct {
	// Label names the undo step. Defaults to "Quick Flip".
	Label string
	// Logger receives commit and abort lines. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Executor applies plans through the transaction primitive of its host.
type Executor struct {
	host   Host
	label  string
	logger *slog.Logger
}

// New creates an Executor.
func New(host Host, opts Options) *Executor {
	if opts.Label == "" {
		opts.Label = "Quick Flip"
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Executor{host: host, label: opts.Label, logger: opts.Logger}
}

// Apply writes every entry of p in order and returns the number of distinct
// targets written. Later entries overwrite earlier ones for the same target.
//
// A stale target fails with diagnostic.ErrEntityStale and a write failure
// aborts the transaction; in both cases the scene is left as it was.
func (x *Executor) Apply(ctx context.Context, p *plan.Plan) (int, error) {
	if p.IsEmpty() {
		return 0, nil
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	for _, e := range p.Entries {
		if err := e.Target.Writable(); err != nil {
			return 0, diagnostic.Stale(e.Target.Ref().String(), err)
		}

		// The reflected transform was computed from the source snapshot.
		if e.Relation == plan.RelationCounterpart {
			if err := e.Source.Unchanged(); err != nil {
				return 0, diagnostic.Stale(e.Source.Ref().String(), err)
			}
		}
	}

	txn, err := x.host.BeginAtomic(fmt.Sprintf("%s %s", x.label, p.Axis.Axis))
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	for _, e := range p.Entries {
		if err := e.Target.SetTransform(e.Reflected); err != nil {
			if abortErr := txn.Abort(); abortErr != nil {
				x.logger.Error("abort after failed write",
					"target", e.Target.Ref().String(), "error", abortErr)

				return 0, fmt.Errorf("%w (abort failed: %v)", err, abortErr)
			}

			x.logger.Warn("mirror aborted",
				"operation", p.Operation.String(),
				"target", e.Target.Ref().String(),
				"error", err)

			return 0, err
		}
	}

	if err := txn.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	n := len(p.Targets())

	x.logger.Info("mirror applied",
		"operation", p.Operation.String(),
		"axis", p.Axis.String(),
		"targets", n)

	return n, nil
}
