// SPDX-License-Identifier: EPL-2.0

package node

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Factory builds a node for a registered description.
type Factory func(desc Description) (Node, error)

// Component is a registry entry.
type Component struct {
	Description Description
	Name        string
	Version     uint32

	factory Factory
}

// InstantiateResult is delivered exactly once on the channel returned by
// Registry.Instantiate.
type InstantiateResult struct {
	Node Node
	Err  error
}

// Registry maps component identities to factories.
//
// It is populated first and read afterwards: the first Instantiate freezes it
// and later registrations fail with ErrRegistryFrozen.
type Registry struct {
	components map[Identity]Component
	frozen     bool

	mtx *sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		components: make(map[Identity]Component),
		mtx:        &sync.RWMutex{},
	}
}

// Register adds a component. Registering an identity again keeps whichever
// entry has the higher version; equal versions keep the first entry, which
// makes repeated registration of the same component a no-op.
func (r *Registry) Register(desc Description, name string, version uint32, f Factory) error {
	if f == nil {
		return fmt.Errorf("register %s: nil factory", desc)
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.frozen {
		return fmt.Errorf("register %s: %w", desc, ErrRegistryFrozen)
	}

	id := desc.Identity()
	if existing, ok := r.components[id]; ok && existing.Version >= version {
		return nil
	}
	r.components[id] = Component{
		Description: desc,
		Name:        name,
		Version:     version,
		factory:     f,
	}
	return nil
}

// Lookup finds a component by the identity of desc; flags are ignored.
func (r *Registry) Lookup(desc Description) (Component, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	c, ok := r.components[desc.Identity()]
	return c, ok
}

// Components lists the registered components ordered by name.
func (r *Registry) Components() []Component {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	out := make([]Component, 0, len(r.components))
	for _, c := range r.components {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].Description.String() < out[j].Description.String()
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mtx.Lock()
	r.frozen = true
	r.mtx.Unlock()
}

func (r *Registry) Frozen() bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.frozen
}

// Instantiate builds a node for desc on its own goroutine. The returned
// channel yields exactly one result and is then closed.
func (r *Registry) Instantiate(ctx context.Context, desc Description) <-chan InstantiateResult {
	r.Freeze()
	done := make(chan InstantiateResult, 1)

	c, ok := r.Lookup(desc)
	if !ok {
		done <- InstantiateResult{Err: fmt.Errorf("%w: %s: %w", ErrInstantiationFailed, desc, ErrComponentNotFound)}
		close(done)
		return done
	}

	go func() {
		defer close(done)

		if err := ctx.Err(); err != nil {
			done <- InstantiateResult{Err: fmt.Errorf("%w: %s: %w", ErrInstantiationFailed, desc, err)}
			return
		}
		n, err := c.factory(desc)
		switch {
		case err != nil:
			done <- InstantiateResult{Err: fmt.Errorf("%w: %s: %w", ErrInstantiationFailed, desc, err)}
		case n == nil:
			done <- InstantiateResult{Err: fmt.Errorf("%w: %s: factory returned no node", ErrInstantiationFailed, desc)}
		default:
			done <- InstantiateResult{Node: n}
		}
	}()
	return done
}

// InstantiateSync waits for Instantiate or ctx, whichever comes first.
func (r *Registry) InstantiateSync(ctx context.Context, desc Description) (Node, error) {
	select {
	case res := <-r.Instantiate(ctx, desc):
		return res.Node, res.Err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", ErrInstantiationFailed, desc, ctx.Err())
	}
}
