package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/polynux/kanap-openclassrooms/models"
	"github.com/polynux/kanap-openclassrooms/storage"
	"go.uber.org/zap"
)

// StorageKey is the key the cart is persisted under in a guest's store.
const StorageKey = "cart"

var ErrLineNotFound = errors.New("cart line not found")

// Catalog is the read side of the remote product API.
type Catalog interface {
	Products(ctx context.Context) ([]models.Product, error)
}

// Store loads a guest's cart, enriches it with catalog data, persists every
// mutation and re-renders after each change. A Store is not safe for
// concurrent use; build one per request or connection.
type Store struct {
	kv       storage.KeyValueStore
	catalog  Catalog
	renderer Renderer
	logger   *zap.Logger

	lines      []models.EnrichedCartLine
	loaded     bool
	enriched   bool
	catalogErr error
}

func NewStore(kv storage.KeyValueStore, catalog Catalog, renderer Renderer, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		kv:       kv,
		catalog:  catalog,
		renderer: renderer,
		logger:   logger,
	}
}

// Load reads the persisted cart. A missing, unreadable or malformed value
// yields an empty cart; it is never reported as an error.
func (s *Store) Load(ctx context.Context) []models.CartLine {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("cart storage unreadable, starting empty", zap.Error(err))
		return []models.CartLine{}
	}
	if !ok {
		return []models.CartLine{}
	}

	var lines []models.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil || lines == nil {
		s.logger.Debug("persisted cart is not a valid cart, starting empty", zap.Error(err))
		return []models.CartLine{}
	}
	return lines
}

// Refresh reloads the persisted cart and enriches it with a fresh catalog.
// On catalog failure the lines are kept bare and the error is returned.
func (s *Store) Refresh(ctx context.Context) error {
	persisted := s.Load(ctx)
	s.lines = Bare(persisted)
	s.loaded = true
	s.enriched = false
	s.catalogErr = nil

	if s.catalog == nil {
		return nil
	}
	products, err := s.catalog.Products(ctx)
	if err != nil {
		s.catalogErr = err
		s.logger.Error("catalog fetch failed", zap.Error(err))
		return fmt.Errorf("fetch catalog: %w", err)
	}

	s.lines = Enrich(persisted, products)
	SortByName(s.lines)
	s.enriched = true
	return nil
}

// Init draws the cart twice: once straight from storage, then again once
// the catalog has been fetched. The second render is authoritative. If ctx
// is done by the time the catalog answers, the second render is skipped.
func (s *Store) Init(ctx context.Context) {
	s.lines = Bare(s.Load(ctx))
	s.loaded = true
	s.render(ctx)

	err := s.Refresh(ctx)
	if ctx.Err() != nil {
		s.logger.Debug("cart init abandoned", zap.Error(ctx.Err()))
		return
	}
	if err != nil {
		s.logger.Warn("rendering cart without catalog data", zap.Error(err))
	}
	s.render(ctx)
}

// View builds the view model of the current in-memory cart.
func (s *Store) View() View {
	return BuildView(s.lines, s.enriched, s.catalogErr != nil)
}

// Lines returns a copy of the current lines.
func (s *Store) Lines() []models.EnrichedCartLine {
	out := make([]models.EnrichedCartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// CatalogErr is the error of the last catalog fetch, if any.
func (s *Store) CatalogErr() error {
	return s.catalogErr
}

// SetQuantity updates the line identified by (id, color). Quantities below 1
// are stored as 1.
func (s *Store) SetQuantity(ctx context.Context, id, color string, quantity int) error {
	s.ensureLoaded(ctx)

	if quantity <= 0 {
		quantity = 1
	}

	idx := s.indexOf(id, color)
	if idx < 0 {
		return fmt.Errorf("%w: %s/%s", ErrLineNotFound, id, color)
	}
	s.lines[idx].Quantity = models.Quantity(quantity)

	return s.commit(ctx)
}

// Remove deletes the line whose id and color both match.
func (s *Store) Remove(ctx context.Context, id, color string) error {
	s.ensureLoaded(ctx)

	kept := make([]models.EnrichedCartLine, 0, len(s.lines))
	for _, l := range s.lines {
		if l.Matches(id, color) {
			continue
		}
		kept = append(kept, l)
	}
	s.lines = kept

	return s.commit(ctx)
}

// Add puts quantity units of (product, color) in the cart, merging into an
// existing line for the same pair.
func (s *Store) Add(ctx context.Context, product models.Product, color string, quantity int) error {
	s.ensureLoaded(ctx)

	if quantity <= 0 {
		quantity = 1
	}

	if idx := s.indexOf(product.ID, color); idx >= 0 {
		s.lines[idx].Quantity = s.lines[idx].Quantity.Plus(quantity)
		return s.commit(ctx)
	}

	s.lines = append(s.lines, models.EnrichedCartLine{
		CartLine: models.CartLine{ID: product.ID, Color: color, Quantity: models.Quantity(quantity)},
		Name:     product.Name,
		Price:    product.Price,
		ImageURL: product.ImageURL,
		AltTxt:   product.AltTxt,
		Matched:  true,
	})
	if s.enriched {
		SortByName(s.lines)
	}
	return s.commit(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.ensureLoaded(ctx)
	s.lines = []models.EnrichedCartLine{}
	return s.commit(ctx)
}

// Persist writes the cart in its minimal {id, color, quantity} form,
// overwriting whatever was stored.
func (s *Store) Persist(ctx context.Context) error {
	raw, err := json.Marshal(Strip(s.lines))
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(raw)); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func (s *Store) commit(ctx context.Context) error {
	if err := s.Persist(ctx); err != nil {
		return err
	}
	s.render(ctx)
	return nil
}

func (s *Store) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("mutating cart without catalog data", zap.Error(err))
	}
}

func (s *Store) indexOf(id, color string) int {
	for i, l := range s.lines {
		if l.Matches(id, color) {
			return i
		}
	}
	return -1
}

func (s *Store) render(ctx context.Context) {
	if s.renderer == nil {
		return
	}
	err := s.renderer.Render(ctx, s.View())
	switch {
	case err == nil:
	case errors.Is(err, ErrTargetGone):
		s.logger.Debug("render target gone, detaching")
		s.renderer = nil
	default:
		s.logger.Warn("cart render failed", zap.Error(err))
	}
}
