// Package quickflip mirrors poses and objects across an axis.
//
// Smart Flip, Flip Pose and Flip Objects share one pipeline: the scope is
// collected from the host, every candidate is paired with its counterpart by
// name, the reflected transforms are planned without touching the scene, and
// the plan is applied in a single host transaction. Entities without a
// counterpart are mirrored onto themselves and reported as warnings; a scene
// that changed between planning and applying is left untouched.
package quickflip

import (
	"context"
	"errors"
	"fmt"

	"quickflip/geom"
	"quickflip/internal/diagnostic"
	"quickflip/internal/execute"
	"quickflip/internal/metrics"
	"quickflip/internal/plan"
	"quickflip/internal/scope"
	"quickflip/scene"
)

// Fatal errors. Both leave the scene unchanged and match with errors.Is.
var (
	ErrEntityStale         = diagnostic.ErrEntityStale
	ErrInvalidAxisForSpace = diagnostic.ErrInvalidAxisForSpace
)

// MirrorError carries the code and entity of a fatal error.
type MirrorError = diagnostic.MirrorError

// Summary reports what an operation did.
type Summary struct {
	// EntitiesMirrored counts plan entries that wrote a counterpart or a
	// symmetric entity onto itself.
	EntitiesMirrored int
	// EntitiesSkippedNoCounterpart counts entries whose counterpart was
	// missing; they were mirrored onto themselves.
	EntitiesSkippedNoCounterpart int
	// Warnings is the consolidated list of non-fatal issues.
	Warnings []string
}

// PlannedEntry is one line of a preview.
type PlannedEntry struct {
	Source        string
	Target        string
	Relation      string
	NoCounterpart bool
	Reflected     geom.Transform
}

// SmartFlip flips bones in pose space and other objects in the configured
// space as one undo step.
func SmartFlip(ctx context.Context, host scene.Host, settings Settings, opts ...Option) (Summary, error) {
	sum, _, err := run(ctx, host, plan.OpSmartFlip, settings, true, opts)
	return sum, err
}

// FlipPose flips bones only. Armatures in scope contribute their selected
// bones, or all bones when none is selected.
func FlipPose(ctx context.Context, host scene.Host, settings Settings, opts ...Option) (Summary, error) {
	sum, _, err := run(ctx, host, plan.OpFlipPose, settings, true, opts)
	return sum, err
}

// FlipObjects flips non-armature objects only.
func FlipObjects(ctx context.Context, host scene.Host, settings Settings, opts ...Option) (Summary, error) {
	sum, _, err := run(ctx, host, plan.OpFlipObjects, settings, true, opts)
	return sum, err
}

// Preview plans op and returns what it would write, without writing.
func Preview(
	ctx context.Context,
	host scene.Host,
	op Operation,
	settings Settings,
	opts ...Option,
) (Summary, []PlannedEntry, error) {
	sum, p, err := run(ctx, host, op, settings, false, opts)
	if err != nil || p == nil {
		return sum, nil, err
	}

	entries := make([]PlannedEntry, 0, len(p.Entries))
	for _, e := range p.Entries {
		entries = append(entries, PlannedEntry{
			Source:        e.Source.Ref().String(),
			Target:        e.Target.Ref().String(),
			Relation:      e.Relation.String(),
			NoCounterpart: e.NoCounterpart,
			Reflected:     e.Reflected,
		})
	}

	return sum, entries, nil
}

func run(
	ctx context.Context,
	host scene.Host,
	op plan.Operation,
	settings Settings,
	apply bool,
	opts []Option,
) (Summary, *plan.Plan, error) {
	o := collectOptions(opts)
	rec := o.metrics

	if err := plan.CheckAxis(op, settings.DefaultAxis); err != nil {
		rec.Operation(op.String(), metrics.OutcomeInvalidAxis)
		return Summary{}, nil, err
	}

	rules := settings.rules()
	if err := rules.Validate(); err != nil {
		rec.Operation(op.String(), metrics.OutcomeFailed)
		return Summary{}, nil, fmt.Errorf("naming rules: %w", err)
	}

	collected, err := scope.NewCollector(host, o.logger).Collect(settings.Scope)
	if err != nil {
		rec.Operation(op.String(), metrics.OutcomeFailed)
		return Summary{}, nil, fmt.Errorf("collect scope: %w", err)
	}

	diags := collected.Diagnostics

	if len(collected.Refs) == 0 {
		record(rec, op, metrics.OutcomeEmpty, nil, diags)
		return Summary{Warnings: diags.WarningStrings()}, nil, nil
	}

	planner := plan.NewPlanner(host, rules, plan.Config{
		ObjectMode:  settings.ObjectMode,
		Parallelism: o.parallelism,
		Logger:      o.logger,
	})

	p, err := planner.Build(op, collected.Refs, settings.DefaultAxis)
	if err != nil {
		rec.Operation(op.String(), outcome(err))
		return Summary{}, nil, fmt.Errorf("plan %s: %w", op, err)
	}

	diags.Merge(p.Diagnostics)

	sum := Summary{
		EntitiesMirrored:             p.Mirrored(),
		EntitiesSkippedNoCounterpart: p.SkippedNoCounterpart(),
		Warnings:                     diags.WarningStrings(),
	}

	if !apply {
		record(rec, op, metrics.OutcomePreview, nil, diags)
		return sum, p, nil
	}

	if p.IsEmpty() {
		record(rec, op, metrics.OutcomeEmpty, nil, diags)
		return sum, p, nil
	}

	label := o.undoLabel
	if label == "" {
		label = undoLabels[op]
	}

	written, err := execute.New(host, execute.Options{Label: label, Logger: o.logger}).Apply(ctx, p)
	if err != nil {
		rec.Operation(op.String(), outcome(err))
		return Summary{}, nil, err
	}

	record(rec, op, metrics.OutcomeApplied, p, diags)
	rec.Written(written)

	return sum, p, nil
}

var undoLabels = map[plan.Operation]string{
	plan.OpSmartFlip:   "Smart Flip",
	plan.OpFlipPose:    "Flip Pose",
	plan.OpFlipObjects: "Flip Objects",
}

func outcome(err error) metrics.Outcome {
	switch {
	case errors.Is(err, ErrEntityStale):
		return metrics.OutcomeStale
	case errors.Is(err, ErrInvalidAxisForSpace):
		return metrics.OutcomeInvalidAxis
	default:
		return metrics.OutcomeFailed
	}
}

func record(rec *metrics.Recorder, op plan.Operation, out metrics.Outcome, p *plan.Plan, diags diagnostic.Diagnostics) {
	rec.Operation(op.String(), out)

	if p != nil {
		rec.Entities(p.Mirrored(), p.SkippedNoCounterpart())
	}

	for _, w := range diags.Warnings {
		rec.Warning(w.Code)
	}
}
