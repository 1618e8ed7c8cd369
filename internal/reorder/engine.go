package reorder

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-site/internal/domain"
)

// Ref identifies a drag source or target.
type Ref struct {
	CategoryID string
	ItemID     string
}

// Persister is the part of the gateway the engine talks to.
type Persister interface {
	AdminCategories(ctx context.Context) ([]domain.Category, error)
	ReorderItems(ctx context.Context, categoryID string, namesInOrder []string) error
}

// Board is the local copy of the admin menu.
type Board struct {
	mu         sync.RWMutex
	categories []domain.Category
}

// Categories returns a deep copy of the board.
func (b *Board) Categories() []domain.Category {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneCategories(b.categories)
}

// Category returns a copy of one category.
func (b *Board) Category(id string) (domain.Category, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, c := range b.categories {
		if c.ID == id {
			return cloneCategory(c), true
		}
	}
	return domain.Category{}, false
}

func (b *Board) replace(categories []domain.Category) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.categories = cloneCategories(categories)
}

func cloneCategory(c domain.Category) domain.Category {
	c.Items = append([]domain.Item{}, c.Items...)
	return c
}

func cloneCategories(in []domain.Category) []domain.Category {
	out := make([]domain.Category, len(in))
	for i, c := range in {
		out[i] = cloneCategory(c)
	}
	return out
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithOnChange registers fn to receive the board after every local change.
func WithOnChange(fn func([]domain.Category)) Option {
	return func(e *Engine) { e.onChange = fn }
}

// Engine applies drops optimistically and then persists them. Concurrent drops are allowed and
// are not serialized across the network call.
type Engine struct {
	api      Persister
	board    Board
	logger   *zap.Logger
	onChange func([]domain.Category)
}

// NewEngine builds an engine with an empty board.
func NewEngine(api Persister, opts ...Option) *Engine {
	e := &Engine{api: api, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Board returns the local menu copy.
func (e *Engine) Board() *Board { return &e.board }

// Load replaces the board with the backend's current categories. On error the board is kept.
func (e *Engine) Load(ctx context.Context) error {
	categories, err := e.api.AdminCategories(ctx)
	if err != nil {
		return err
	}
	e.board.replace(categories)
	e.changed()
	return nil
}

// Drop moves src to the position of dst. It returns false without error when there is nothing
// to do: unknown refs, refs in different categories, or a drop onto itself.
//
// The board shows the new order before the request is sent. If the request fails the move is
// rolled back, unless another drop changed the category in the meantime. The board is reloaded
// afterwards either way.
func (e *Engine) Drop(ctx context.Context, src, dst Ref) (bool, error) {
	if src.CategoryID != dst.CategoryID {
		return false, nil
	}

	e.board.mu.Lock()
	ci := -1
	for i := range e.board.categories {
		if e.board.categories[i].ID == src.CategoryID {
			ci = i
			break
		}
	}
	if ci < 0 {
		e.board.mu.Unlock()
		return false, nil
	}
	before := e.board.categories[ci].Items
	from, to := indexOf(before, src.ItemID), indexOf(before, dst.ItemID)
	if from < 0 || to < 0 || from == to {
		e.board.mu.Unlock()
		return false, nil
	}
	after := Move(before, from, to)
	e.board.categories[ci].Items = after
	names := (domain.Category{Items: after}).ItemNames()
	e.board.mu.Unlock()
	e.changed()

	err := e.api.ReorderItems(ctx, src.CategoryID, names)
	if err != nil {
		e.logger.Warn("persisting item order failed",
			zap.String("category_id", src.CategoryID), zap.Error(err))
		e.rollback(src.CategoryID, after, before)
	}

	if loadErr := e.Load(ctx); loadErr != nil {
		e.logger.Warn("reloading categories after reorder failed", zap.Error(loadErr))
		if err == nil {
			err = loadErr
		}
	}
	return true, err
}

func (e *Engine) rollback(categoryID string, applied, previous []domain.Item) {
	e.board.mu.Lock()
	reverted := false
	for i := range e.board.categories {
		c := &e.board.categories[i]
		if c.ID == categoryID && sameOrder(c.Items, applied) {
			c.Items = previous
			reverted = true
		}
	}
	e.board.mu.Unlock()
	if reverted {
		e.changed()
	}
}

func (e *Engine) changed() {
	if e.onChange != nil {
		e.onChange(e.board.Categories())
	}
}

func indexOf(items []domain.Item, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func sameOrder(a, b []domain.Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
