// Package scope expands a scope specification (the current selection or a
// collection) into an ordered, de-duplicated list of candidate entities.
package scope

import (
	"fmt"
	"log/slog"

	"quickflip/internal/common"
	"quickflip/internal/diagnostic"
	"quickflip/scene"
)

// Mode selects where candidates come from.
type Mode int

const (
	ModeSelection Mode = iota
	ModeCollection
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeSelection:
		return "selection"
	case ModeCollection:
		return "collection"
	default:
		return common.UnknownStr
	}
}

// Spec describes an operation's scope.
type Spec struct {
	Mode Mode
	// Collection is the root collection for ModeCollection.
	Collection scene.CollectionID
	// IncludeSubcollections descends into nested collections.
	IncludeSubcollections bool
	// IncludeChildren pulls in the parented descendants of collected objects.
	IncludeChildren bool
}

// Result is the collected scope.
type Result struct {
	Refs        []scene.Ref
	Diagnostics diagnostic.Diagnostics
}

// Collector reads scope membership from a host.
type Collector struct {
	host   scene.Host
	logger *slog.Logger
}

// NewCollector creates a Collector. A nil logger uses slog.Default().
func NewCollector(host scene.Host, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}

	return &Collector{host: host, logger: logger}
}

// Collect expands spec. The order is the host's selection order or the
// breadth-first collection order, followed by descendants when requested.
// Calling Collect twice on an unchanged scene yields the same order.
func (c *Collector) Collect(spec Spec) (*Result, error) {
	res := &Result{}

	var refs []scene.Ref

	switch spec.Mode {
	case ModeSelection:
		refs = c.host.CurrentSelection()
	case ModeCollection:
		var err error

		refs, err = c.collection(spec, &res.Diagnostics)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown scope mode %d", int(spec.Mode))
	}

	if spec.IncludeChildren {
		refs = append(refs, c.descendants(refs)...)
	}

	res.Refs = common.Dedupe(refs)

	if len(res.Refs) == 0 {
		res.Diagnostics.AddWarning(diagnostic.CodeEmptyScope,
			fmt.Sprintf("no entities found in %s scope", spec.Mode), "", "")
	}

	c.logger.Debug("scope collected",
		"mode", spec.Mode.String(),
		"collection", string(spec.Collection),
		"entities", len(res.Refs))

	return res, nil
}

// collection walks collections breadth-first from spec.Collection.
func (c *Collector) collection(spec Spec, diags *diagnostic.Diagnostics) ([]scene.Ref, error) {
	root, err := c.host.Collection(spec.Collection)
	if err != nil {
		return nil, fmt.Errorf("scope collection %q: %w", spec.Collection, err)
	}

	var refs []scene.Ref

	visited := map[scene.CollectionID]bool{root.ID: true}
	queue := []scene.Collection{root}

	for len(queue) > 0 {
		col := queue[0]
		queue = queue[1:]

		for _, obj := range col.Objects {
			refs = append(refs, scene.ObjectRef(obj))
		}

		if !spec.IncludeSubcollections {
			continue
		}

		for _, childID := range col.Children {
			if visited[childID] {
				diags.AddWarning(diagnostic.CodeCollectionCycle,
					fmt.Sprintf("collection %q reached twice (from %q), skipped", childID, col.ID), "", "")

				continue
			}

			visited[childID] = true

			child, err := c.host.Collection(childID)
			if err != nil {
				diags.AddWarning(diagnostic.CodeUnknownCollection,
					fmt.Sprintf("child collection %q of %q: %v", childID, col.ID, err), "", "")

				continue
			}

			queue = append(queue, child)
		}
	}

	return refs, nil
}

// descendants returns the parented descendants of the object refs, in the
// order of refs, each object's subtree breadth-first.
func (c *Collector) descendants(refs []scene.Ref) []scene.Ref {
	var out []scene.Ref

	seen := make(map[scene.ObjectID]bool)

	for _, ref := range refs {
		if ref.Kind != scene.KindObject {
			continue
		}

		seen[ref.Object] = true
		queue := c.host.Children(ref.Object)

		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]

			if seen[id] {
				continue
			}

			seen[id] = true
			out = append(out, scene.ObjectRef(id))
			queue = append(queue, c.host.Children(id)...)
		}
	}

	return out
}
