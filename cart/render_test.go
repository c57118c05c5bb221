package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderersFanOut(t *testing.T) {
	a, b := &Snapshot{}, &Snapshot{}
	rs := Renderers{a, nil, b}

	err := rs.Render(context.Background(), View{TotalQuantity: 2})

	assert.NoError(t, err)
	assert.Equal(t, 1, a.Count())
	assert.Equal(t, 1, b.Count())
}

func TestRenderersReportFirstFailureAfterTryingAll(t *testing.T) {
	boom := errors.New("boom")
	after := &Snapshot{}
	rs := Renderers{
		RendererFunc(func(context.Context, View) error { return ErrTargetGone }),
		RendererFunc(func(context.Context, View) error { return boom }),
		RendererFunc(func(context.Context, View) error { return errors.New("second") }),
		after,
	}

	err := rs.Render(context.Background(), View{})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, after.Count())
}

func TestRenderersGoneWhenEveryTargetIsGone(t *testing.T) {
	gone := RendererFunc(func(context.Context, View) error { return ErrTargetGone })

	assert.ErrorIs(t, Renderers{gone, nil, gone}.Render(context.Background(), View{}), ErrTargetGone)
	assert.ErrorIs(t, Renderers{}.Render(context.Background(), View{}), ErrTargetGone)
	assert.NoError(t, Renderers{gone, &Snapshot{}}.Render(context.Background(), View{}))
}

func TestSnapshotLast(t *testing.T) {
	s := &Snapshot{}
	_, ok := s.Last()
	assert.False(t, ok)

	s.Render(context.Background(), View{TotalQuantity: 1})
	s.Render(context.Background(), View{TotalQuantity: 3})

	last, ok := s.Last()
	assert.True(t, ok)
	assert.Equal(t, 3, last.TotalQuantity)
	assert.Equal(t, 2, s.Count())
}
