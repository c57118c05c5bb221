package cart

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/polynux/kanap-openclassrooms/models"
	"github.com/polynux/kanap-openclassrooms/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products []models.Product
	err      error
	calls    int
	onFetch  func()
}

func (f *fakeCatalog) Products(context.Context) ([]models.Product, error) {
	f.calls++
	if f.onFetch != nil {
		f.onFetch()
	}
	return f.products, f.err
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func (failingKV) Set(context.Context, string, string) error {
	return errors.New("disk on fire")
}

func seeded(t *testing.T, raw string) storage.KeyValueStore {
	t.Helper()
	kv := storage.NewMemory().Namespace("guest_test")
	if raw != "" {
		require.NoError(t, kv.Set(context.Background(), StorageKey, raw))
	}
	return kv
}

func persisted(t *testing.T, kv storage.KeyValueStore) []map[string]any {
	t.Helper()
	raw, ok, err := kv.Get(context.Background(), StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	var out []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func catalogOf(products ...models.Product) *fakeCatalog {
	return &fakeCatalog{products: products}
}

func TestLoadValidCart(t *testing.T) {
	kv := seeded(t, `[{"id":"a","color":"Blue","quantity":2},{"id":"b","color":"Red","quantity":"3"}]`)

	lines := NewStore(kv, nil, nil, nil).Load(context.Background())

	assert.Equal(t, []models.CartLine{line("a", "Blue", 2), line("b", "Red", 3)}, lines)
}

func TestLoadInvalidOrMissingIsEmpty(t *testing.T) {
	for name, raw := range map[string]string{
		"missing":   "",
		"garbage":   "not json",
		"null":      "null",
		"object":    `{"id":"a"}`,
		"bad qty":   `[{"id":"a","color":"Blue","quantity":"lots"}]`,
		"truncated": `[{"id":"a"`,
		"nan":       `[{"id":"a","color":"Red","quantity":"NaN"}]`,
		"infinity":  `[{"id":"a","color":"Red","quantity":"Infinity"}]`,
		"too large": `[{"id":"a","color":"Red","quantity":1e19}]`,
		"fraction":  `[{"id":"a","color":"Red","quantity":2.7}]`,
	} {
		t.Run(name, func(t *testing.T) {
			lines := NewStore(seeded(t, raw), nil, nil, nil).Load(context.Background())
			assert.NotNil(t, lines)
			assert.Empty(t, lines)
		})
	}
}

func TestLoadAcceptsWholeFloatQuantity(t *testing.T) {
	kv := seeded(t, `[{"id":"a","color":"Red","quantity":2.0},{"id":"b","color":"Red","quantity":"1e2"}]`)

	lines := NewStore(kv, nil, nil, nil).Load(context.Background())

	assert.Equal(t, []models.CartLine{line("a", "Red", 2), line("b", "Red", 100)}, lines)
}

func TestLoadStorageErrorIsEmpty(t *testing.T) {
	lines := NewStore(failingKV{}, nil, nil, nil).Load(context.Background())
	assert.Empty(t, lines)
}

func TestRemoveOnlyExactLine(t *testing.T) {
	kv := seeded(t, `[{"id":"A","color":"red","quantity":1},{"id":"A","color":"blue","quantity":1},{"id":"B","color":"red","quantity":1}]`)
	s := NewStore(kv, nil, nil, nil)

	require.NoError(t, s.Remove(context.Background(), "A", "red"))

	assert.Equal(t, []models.CartLine{line("A", "blue", 1), line("B", "red", 1)}, Strip(s.Lines()))
	assert.Equal(t, []models.CartLine{line("A", "blue", 1), line("B", "red", 1)}, NewStore(kv, nil, nil, nil).Load(context.Background()))
}

func TestRemoveUnknownLineKeepsCart(t *testing.T) {
	kv := seeded(t, `[{"id":"A","color":"red","quantity":1}]`)
	s := NewStore(kv, nil, nil, nil)

	require.NoError(t, s.Remove(context.Background(), "A", "blue"))

	assert.Len(t, s.Lines(), 1)
}

func TestSetQuantityClampsToOne(t *testing.T) {
	for _, qty := range []int{0, -1, -100} {
		kv := seeded(t, `[{"id":"a","color":"Blue","quantity":5}]`)
		s := NewStore(kv, nil, nil, nil)

		require.NoError(t, s.SetQuantity(context.Background(), "a", "Blue", qty))

		assert.Equal(t, models.Quantity(1), s.Lines()[0].Quantity)
		assert.EqualValues(t, 1, persisted(t, kv)[0]["quantity"])
	}
}

func TestSetQuantityUpdatesOnlyMatchingLine(t *testing.T) {
	kv := seeded(t, `[{"id":"a","color":"Blue","quantity":1},{"id":"a","color":"Red","quantity":1}]`)
	s := NewStore(kv, nil, nil, nil)

	require.NoError(t, s.SetQuantity(context.Background(), "a", "Red", 7))

	assert.Equal(t, []models.CartLine{line("a", "Blue", 1), line("a", "Red", 7)}, NewStore(kv, nil, nil, nil).Load(context.Background()))
}

func TestSetQuantityUnknownLine(t *testing.T) {
	kv := seeded(t, `[{"id":"a","color":"Blue","quantity":1}]`)
	snap := &Snapshot{}
	s := NewStore(kv, nil, snap, nil)

	err := s.SetQuantity(context.Background(), "a", "Green", 2)

	assert.ErrorIs(t, err, ErrLineNotFound)
	assert.Equal(t, 0, snap.Count())
}

func TestPersistNeverLeaksEnrichment(t *testing.T) {
	kv := seeded(t, `[{"id":"a","color":"Blue","quantity":1}]`)
	s := NewStore(kv, catalogOf(product("a", "Kanap Sinopé", 1849)), nil, nil)
	require.NoError(t, s.Refresh(context.Background()))

	require.NoError(t, s.SetQuantity(context.Background(), "a", "Blue", 4))

	stored := persisted(t, kv)
	require.Len(t, stored, 1)
	assert.Len(t, stored[0], 3)
	assert.Equal(t, "a", stored[0]["id"])
	assert.Equal(t, "Blue", stored[0]["color"])
	assert.EqualValues(t, 4, stored[0]["quantity"])
}

func TestMutationPersistFailure(t *testing.T) {
	s := NewStore(failingKV{}, nil, nil, nil)
	require.NoError(t, s.Refresh(context.Background()))

	err := s.Clear(context.Background())
	assert.Error(t, err)
}

func TestInitRendersTwiceLastEnriched(t *testing.T) {
	kv := seeded(t, `[{"id":"b","color":"Red","quantity":3},{"id":"a","color":"Blue","quantity":2}]`)
	snap := &Snapshot{}
	cat := catalogOf(product("a", "Abricot", 10), product("b", "Banane", 5))

	NewStore(kv, cat, snap, nil).Init(context.Background())

	require.Equal(t, 2, snap.Count())
	v, _ := snap.Last()
	assert.True(t, v.Enriched)
	assert.Equal(t, []string{"Abricot", "Banane"}, names(v.Items))
	assert.Equal(t, 5, v.TotalQuantity)
	assert.Equal(t, "35", v.TotalPrice.String())
	assert.Equal(t, 1, cat.calls)
}

func TestInitFirstRenderComesFromStorage(t *testing.T) {
	kv := seeded(t, `[{"id":"a","color":"Blue","quantity":2}]`)
	snap := &Snapshot{}
	var atFetch int
	cat := catalogOf(product("a", "Abricot", 10))
	cat.onFetch = func() { atFetch = snap.Count() }

	NewStore(kv, cat, snap, nil).Init(context.Background())

	assert.Equal(t, 1, atFetch)
}

func TestInitCatalogFailureShowsRetryState(t *testing.T) {
	kv := seeded(t, `[{"id":"a","color":"Blue","quantity":2}]`)
	snap := &Snapshot{}
	cat := &fakeCatalog{err: errors.New("connection refused")}

	s := NewStore(kv, cat, snap, nil)
	s.Init(context.Background())

	v, ok := snap.Last()
	require.True(t, ok)
	assert.True(t, v.CatalogUnavailable)
	assert.False(t, v.Enriched)
	assert.Equal(t, 2, v.TotalQuantity)
	assert.Error(t, s.CatalogErr())
}

func TestInitCancelledSkipsSecondRender(t *testing.T) {
	kv := seeded(t, `[{"id":"a","color":"Blue","quantity":2}]`)
	snap := &Snapshot{}
	ctx, cancel := context.WithCancel(context.Background())
	cat := catalogOf(product("a", "Abricot", 10))
	cat.onFetch = cancel

	NewStore(kv, cat, snap, nil).Init(ctx)

	assert.Equal(t, 1, snap.Count())
}

func TestInitEmptyCart(t *testing.T) {
	snap := &Snapshot{}

	NewStore(seeded(t, ""), catalogOf(), snap, nil).Init(context.Background())

	v, ok := snap.Last()
	require.True(t, ok)
	assert.True(t, v.Empty)
	assert.False(t, v.ShowForm)
	assert.Equal(t, 0, v.TotalQuantity)
	assert.True(t, v.TotalPrice.IsZero())
}

func TestRendererGoneIsDetached(t *testing.T) {
	kv := seeded(t, `[{"id":"a","color":"Blue","quantity":2}]`)
	calls := 0
	gone := RendererFunc(func(context.Context, View) error {
		calls++
		return ErrTargetGone
	})
	s := NewStore(kv, nil, gone, nil)

	s.Init(context.Background())
	require.NoError(t, s.SetQuantity(context.Background(), "a", "Blue", 3))

	assert.Equal(t, 1, calls)
}

func TestAddMergesSameVariant(t *testing.T) {
	kv := seeded(t, `[{"id":"a","color":"Blue","quantity":2}]`)
	s := NewStore(kv, nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, product("a", "Abricot", 10), "Blue", 3))
	require.NoError(t, s.Add(ctx, product("a", "Abricot", 10), "Red", 1))

	assert.Equal(t, []models.CartLine{line("a", "Blue", 5), line("a", "Red", 1)}, NewStore(kv, nil, nil, nil).Load(ctx))
}

func TestAddSaturatesInsteadOfOverflowing(t *testing.T) {
	kv := seeded(t, `[{"id":"a","color":"Red","quantity":1}]`)
	s := NewStore(kv, nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, product("a", "Abricot", 10), "Red", math.MaxInt))
	require.NoError(t, s.Add(ctx, product("a", "Abricot", 10), "Red", math.MaxInt))

	lines := NewStore(kv, nil, nil, nil).Load(ctx)
	require.Len(t, lines, 1)
	assert.Equal(t, models.Quantity(math.MaxInt), lines[0].Quantity)
	assert.Positive(t, int(lines[0].Quantity))
}

func TestMutationsRender(t *testing.T) {
	kv := seeded(t, `[{"id":"a","color":"Blue","quantity":2}]`)
	snap := &Snapshot{}
	s := NewStore(kv, catalogOf(product("a", "Abricot", 10)), snap, nil)
	ctx := context.Background()

	require.NoError(t, s.SetQuantity(ctx, "a", "Blue", 4))
	v, _ := snap.Last()
	assert.Equal(t, "40", v.TotalPrice.String())

	require.NoError(t, s.Remove(ctx, "a", "Blue"))
	v, _ = snap.Last()
	assert.True(t, v.Empty)
	assert.False(t, v.ShowForm)
	assert.Equal(t, 2, snap.Count())
}
