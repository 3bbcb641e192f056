package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/refacciones-ledger/internal/application/cart"
	"github.com/jhoicas/refacciones-ledger/internal/domain/entity"
)

var _ cart.Store = (*CartStore)(nil)

// CartStore carritos en memoria, sin expiración.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]entity.Cart
}

// NewCartStore crea un almacén vacío.
func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]entity.Cart)}
}

func (s *CartStore) Get(_ context.Context, userID string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return nil, nil
	}
	c.Items = append([]entity.CartItem(nil), c.Items...)
	return &c, nil
}

func (s *CartStore) Save(_ context.Context, c *entity.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	cp.Items = append([]entity.CartItem(nil), c.Items...)
	s.carts[c.UserID] = cp
	return nil
}

func (s *CartStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}
