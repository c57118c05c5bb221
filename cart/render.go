package cart

import (
	"context"
	"errors"
	"sync"
)

// ErrTargetGone is returned by a Renderer whose surface no longer exists
// (closed connection, finished response). The store stops rendering to it.
var ErrTargetGone = errors.New("render target is gone")

// Renderer applies a view to a surface.
type Renderer interface {
	Render(ctx context.Context, v View) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, v View) error

func (f RendererFunc) Render(ctx context.Context, v View) error { return f(ctx, v) }

// Renderers fans a view out to several targets. The first error is returned
// after every target has been tried. ErrTargetGone is returned only when no
// target is left.
type Renderers []Renderer

func (rs Renderers) Render(ctx context.Context, v View) error {
	var first error
	live := 0
	for _, r := range rs {
		if r == nil {
			continue
		}
		err := r.Render(ctx, v)
		if errors.Is(err, ErrTargetGone) {
			continue
		}
		live++
		if err != nil && first == nil {
			first = err
		}
	}
	if live == 0 {
		return ErrTargetGone
	}
	return first
}

// Snapshot records every view it is given. The last one is authoritative.
type Snapshot struct {
	mu    sync.Mutex
	views []View
}

func (s *Snapshot) Render(_ context.Context, v View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, v)
	return nil
}

// Last returns the most recent view and whether any render happened.
func (s *Snapshot) Last() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.views) == 0 {
		return View{}, false
	}
	return s.views[len(s.views)-1], true
}

// Count is the number of renders seen.
func (s *Snapshot) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}
