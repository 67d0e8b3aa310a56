package execute

import "quickflip/scene"

// Host is the part of scene.Host the executor needs.
type Host interface {
	BeginAtomic(label string) (scene.Txn, error)
}
