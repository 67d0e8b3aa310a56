package plan

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"quickflip/geom"
	"quickflip/internal/common"
	"quickflip/internal/diagnostic"
	"quickflip/internal/entity"
	"quickflip/internal/match"
	"quickflip/naming"
	"quickflip/scene"
)

// Planner turns a collected scope into a Plan.
type Planner struct {
	host     scene.Host
	resolver *naming.Resolver
	config   Config
	logger   *slog.Logger
}

// NewPlanner creates a new Planner.
func NewPlanner(host scene.Host, rules naming.Rules, config Config) *Planner {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Planner{
		host:     host,
		resolver: naming.NewResolver(rules),
		config:   config,
		logger:   logger,
	}
}

// candidate is one entity that survived the operation filter.
type candidate struct {
	ref   scene.Ref
	space geom.Space
}

// Build plans op over refs. axis.Space is the object space; bones are always
// mirrored in pose space. Nothing is written.
func (p *Planner) Build(op Operation, refs []scene.Ref, axis geom.MirrorAxis) (*Plan, error) {
	if err := CheckAxis(op, axis); err != nil {
		return nil, err
	}

	plan := &Plan{Operation: op, Axis: axis}

	cands, err := p.candidates(op, refs, axis.Space, &plan.Diagnostics)
	if err != nil {
		return nil, err
	}

	// Snapshots are taken concurrently and stored by index, so the plan keeps
	// scope order whatever the completion order.
	entries := make([]*Entry, len(cands))
	diags := make([]diagnostic.Diagnostics, len(cands))

	var g errgroup.Group

	g.SetLimit(max(p.config.Parallelism, 1))

	for i, c := range cands {
		g.Go(func() error {
			e, err := p.entry(c, axis.Axis, &diags[i])
			if err != nil {
				return err
			}

			entries[i] = e

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range cands {
		plan.Diagnostics.Merge(diags[i])

		if entries[i] != nil {
			plan.Entries = append(plan.Entries, *entries[i])
		}
	}

	if plan.IsEmpty() && len(refs) > 0 {
		plan.Diagnostics.AddWarning(diagnostic.CodeEmptyScope,
			fmt.Sprintf("nothing in scope can be mirrored by %s", op), "", "")
	}

	reportSharedTargets(plan)

	p.logger.Debug("mirror plan built",
		"operation", op.String(),
		"axis", axis.String(),
		"entries", len(plan.Entries),
		"warnings", len(plan.Diagnostics.Warnings))

	return plan, nil
}

// CheckAxis rejects axis/space combinations for op before anything is read.
func CheckAxis(op Operation, axis geom.MirrorAxis) error {
	if err := axis.Validate(); err != nil {
		return diagnostic.InvalidAxis(err.Error(), err)
	}

	switch op {
	case OpFlipPose:
		if axis.Space == geom.SpaceWorld {
			return diagnostic.InvalidAxis("bones are mirrored in pose space, not world", nil)
		}
	case OpFlipObjects, OpSmartFlip:
		if axis.Space == geom.SpacePose {
			return diagnostic.InvalidAxis(
				fmt.Sprintf("%s mirrors objects in local or world space, not pose", op), nil)
		}
	default:
		return fmt.Errorf("unknown operation %d", int(op))
	}

	return nil
}

func (p *Planner) candidates(
	op Operation,
	refs []scene.Ref,
	objectSpace geom.Space,
	diags *diagnostic.Diagnostics,
) ([]candidate, error) {
	var out []candidate

	for _, ref := range refs {
		info, err := p.host.Info(ref)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", ref, err)
		}

		switch {
		case ref.Kind == scene.KindBone:
			if op == OpFlipObjects {
				diags.AddInfo(diagnostic.CodeEntitySkipped, "bones are not mirrored by flip_objects",
					ref.Namespace(), info.Name)

				continue
			}

			if skipped(info, diags) {
				continue
			}

			out = append(out, candidate{ref: ref, space: geom.SpacePose})
		case info.IsArmature:
			if op == OpFlipObjects {
				diags.AddInfo(diagnostic.CodeEntitySkipped, "armatures are not mirrored by flip_objects",
					"", info.Name)

				continue
			}

			if skipped(info, diags) {
				continue
			}

			bones, err := p.armatureBones(ref)
			if err != nil {
				return nil, err
			}

			for _, b := range bones {
				out = append(out, candidate{ref: b, space: geom.SpacePose})
			}
		default:
			if op == OpFlipPose {
				diags.AddInfo(diagnostic.CodeEntitySkipped, "objects are not mirrored by flip_pose",
					"", info.Name)

				continue
			}

			if skipped(info, diags) {
				continue
			}

			out = append(out, candidate{ref: ref, space: objectSpace})
		}
	}

	return common.Dedupe(out), nil
}

// armatureBones returns the selected bones of an armature, or all of them
// when none is selected.
func (p *Planner) armatureBones(armature scene.Ref) ([]scene.Ref, error) {
	all := p.host.Bones(armature.Object)

	var selected []scene.Ref

	for _, b := range all {
		info, err := p.host.Info(b)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", b, err)
		}

		if info.Selected {
			selected = append(selected, b)
		}
	}

	if len(selected) == 0 {
		return all, nil
	}

	return selected, nil
}

func skipped(info scene.Info, diags *diagnostic.Diagnostics) bool {
	switch {
	case info.Linked:
		diags.AddWarning(diagnostic.CodeEntitySkipped, "linked from a library and read-only",
			info.Ref.Namespace(), info.Name)
	case info.Hidden:
		diags.AddWarning(diagnostic.CodeEntitySkipped, "hidden",
			info.Ref.Namespace(), info.Name)
	default:
		return false
	}

	return true
}

// entry snapshots one candidate and resolves its target. A nil entry means
// the candidate was dropped with a diagnostic.
func (p *Planner) entry(c candidate, axis geom.Axis, diags *diagnostic.Diagnostics) (*Entry, error) {
	src, err := entity.New(p.host, c.ref, c.space)
	if err != nil {
		return nil, err
	}

	var found scene.Ref

	cp := p.resolver.Lookup(src.Name(), func(name string) bool {
		ref, ok := p.host.Lookup(c.ref, name)
		found = ref

		return ok
	})

	e := &Entry{Source: src, Target: src, Relation: RelationSelfMirror, Ambiguous: cp.Ambiguous}

	if cp.Ambiguous {
		diags.AddWarning(diagnostic.CodeAmbiguousName,
			fmt.Sprintf("also matches %s; using %q", strings.Join(cp.Alternatives, ", "), cp.Name),
			src.Namespace(), src.Name())
	}

	switch cp.Kind {
	case naming.KindName:
		target, err := entity.New(p.host, found, c.space)
		if err != nil {
			return nil, err
		}

		info := target.Info()

		switch {
		case info.Linked:
			diags.AddWarning(diagnostic.CodeEntitySkipped,
				fmt.Sprintf("counterpart %q is linked from a library and read-only", cp.Name),
				src.Namespace(), src.Name())

			return nil, nil
		case info.IsArmature && c.ref.Kind == scene.KindObject:
			e.NoCounterpart = true

			diags.AddWarning(diagnostic.CodeNoCounterpart,
				fmt.Sprintf("counterpart %q is an armature; mirrored onto itself", cp.Name),
				src.Namespace(), src.Name())
		case info.Hidden:
			e.NoCounterpart = true

			diags.AddWarning(diagnostic.CodeNoCounterpart,
				fmt.Sprintf("counterpart %q is hidden; mirrored onto itself", cp.Name),
				src.Namespace(), src.Name())
		default:
			e.Target = target
			e.Relation = RelationCounterpart
		}
	case naming.KindUnresolved:
		e.NoCounterpart = true

		msg := fmt.Sprintf("counterpart %q not found; mirrored onto itself", cp.Name)
		if s, ok := p.closest(src, cp.Name); ok {
			msg += fmt.Sprintf(" (closest existing name: %q)", s.Name)
		}

		diags.AddWarning(diagnostic.CodeNoCounterpart, msg, src.Namespace(), src.Name())
	}

	e.Reflected, err = p.reflect(src, axis)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("planned mirror",
		"source", src.Ref().String(),
		"target", e.Target.Ref().String(),
		"relation", e.Relation.String())

	return e, nil
}

// closest suggests an existing bone for a missing counterpart. Objects have no
// enumerable namespace on the host, so they get no suggestion.
func (p *Planner) closest(src entity.Adapter, missing string) (match.Suggestion, bool) {
	if src.Kind() != scene.KindBone {
		return match.Suggestion{}, false
	}

	var names []string

	for _, ref := range p.host.Bones(src.Ref().Object) {
		if ref.Bone != src.Name() {
			names = append(names, ref.Bone)
		}
	}

	return match.Suggest(missing, names, match.DefaultMinScore)
}

func (p *Planner) reflect(src entity.Adapter, axis geom.Axis) (geom.Transform, error) {
	frame := geom.MirrorAxis{Axis: axis, Space: src.Space()}

	if src.Kind() == scene.KindObject && p.config.ObjectMode == ObjectNegateScale {
		return geom.NegateScale(src.Transform(), frame)
	}

	return geom.Reflect(src.Transform(), frame)
}

// reportSharedTargets notes targets written by more than one entry. The
// executor applies entries in order, so the last one wins.
func reportSharedTargets(plan *Plan) {
	last := make(map[scene.Ref]int, len(plan.Entries))
	count := make(map[scene.Ref]int, len(plan.Entries))

	for i, e := range plan.Entries {
		last[e.Target.Ref()] = i
		count[e.Target.Ref()]++
	}

	for _, ref := range plan.Targets() {
		if count[ref] < 2 {
			continue
		}

		winner := plan.Entries[last[ref]]
		plan.Diagnostics.AddInfo(diagnostic.CodeDuplicateTarget,
			fmt.Sprintf("written by %d entries; the one from %s wins", count[ref], winner.Source.Name()),
			ref.Namespace(), winner.Target.Name())
	}
}
