// Package rotation implements the credential rotation core: the balanced
// usage order, startup state recovery, and the perpetual swap loop.
package rotation

import (
	"sort"

	"github.com/systmms/sarotate/internal/credstore"
)

// Group is the unit of scheduling: one credential directory plus the
// ordered queue of its credentials and the remotes it serves.
//
// The queue's membership is fixed at startup; only its order changes.
// After handoff from recovery the scheduler loop is the sole mutator.
type Group struct {
	// Dir is the credential directory, also the group's configuration key.
	Dir string

	// remotes maps each served remote name to its control address.
	remotes map[string]string

	// queue holds the rotation order, front = next to activate.
	queue []*credstore.Record
}

// NewGroup creates a group over an already-ordered queue.
func NewGroup(dir string, remotes map[string]string, queue []*credstore.Record) *Group {
	return &Group{Dir: dir, remotes: remotes, queue: queue}
}

// RemoteNames returns the served remotes in sorted order, so every pass
// visits them deterministically.
func (g *Group) RemoteNames() []string {
	names := make([]string, 0, len(g.remotes))
	for name := range g.remotes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddressOf returns the control address a remote is bound to.
func (g *Group) AddressOf(remote string) string {
	return g.remotes[remote]
}

// Front returns the next credential to activate, or nil for an empty queue.
func (g *Group) Front() *credstore.Record {
	if len(g.queue) == 0 {
		return nil
	}
	return g.queue[0]
}

// Advance moves the front credential to the back. Called exactly once per
// successful swap; a failed swap leaves the queue untouched so the same
// credential is retried on the next pass.
func (g *Group) Advance() {
	if len(g.queue) < 2 {
		return
	}
	front := g.queue[0]
	copy(g.queue, g.queue[1:])
	g.queue[len(g.queue)-1] = front
}

// MoveToBack relocates the record with the given file name to the back of
// the queue, preserving the relative order of all other members. Reports
// whether a matching record was found.
func (g *Group) MoveToBack(fileName string) bool {
	for i, record := range g.queue {
		if record.FileName != fileName {
			continue
		}
		copy(g.queue[i:], g.queue[i+1:])
		g.queue[len(g.queue)-1] = record
		return true
	}
	return false
}

// Records returns a copy of the queue in its current order.
func (g *Group) Records() []*credstore.Record {
	out := make([]*credstore.Record, len(g.queue))
	copy(out, g.queue)
	return out
}

// Size returns the number of credentials in the queue.
func (g *Group) Size() int {
	return len(g.queue)
}
