package memscene

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"

	"quickflip/scene"
)

type txn struct {
	scene  *Scene
	label  string
	before State
	done   bool
}

// BeginAtomic implements scene.Host. Only one transaction may be open.
func (s *Scene) BeginAtomic(label string) (scene.Txn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.txn != nil {
		return nil, scene.ErrTxnActive
	}

	before, err := cloneState(&s.state)
	if err != nil {
		return nil, fmt.Errorf("begin %q: %w", label, err)
	}

	t := &txn{scene: s, label: label, before: before}
	s.txn = t

	return t, nil
}

// Commit records the transaction as one undo step.
func (t *txn) Commit() error {
	s := t.scene

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.done || s.txn != t {
		return scene.ErrTxnClosed
	}

	t.done = true
	s.txn = nil
	s.undo = append(s.undo, undoStep{label: t.label, state: t.before})

	return nil
}

// Abort restores the state captured by BeginAtomic.
func (t *txn) Abort() error {
	s := t.scene

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.done || s.txn != t {
		return scene.ErrTxnClosed
	}

	t.done = true
	s.txn = nil
	s.state = t.before
	s.state.touch(s.next)

	return nil
}

func cloneState(st *State) (State, error) {
	var out State
	if err := deepcopy.Copy(&out, st); err != nil {
		return State{}, fmt.Errorf("snapshot scene state: %w", err)
	}

	return out, nil
}
