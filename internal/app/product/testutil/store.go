// Package testutil holds in-memory stand-ins for the Spanner and Redis
// adapters so use cases and handlers can be tested without an emulator.
package testutil

import (
	"context"
	"slices"
	"sync"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/models/m_product"
	"github.com/light-bringer/decant-catalog/internal/pkg/clock"
	"github.com/light-bringer/decant-catalog/internal/pkg/committer"
)

// Store is an in-memory ProductRepository and ReadModel. Rows are written as
// soon as a mutation is built, which is close enough for single-writer tests.
type Store struct {
	mu    sync.Mutex
	clock clock.Clock
	rows  map[string]*contracts.ProductDTO
	order []string

	// BeforeLoad, when set, runs before every Load.
	BeforeLoad func(productID string)
}

var (
	_ contracts.ProductRepository = (*Store)(nil)
	_ contracts.ReadModel         = (*Store)(nil)
)

func NewStore(clk clock.Clock) *Store {
	return &Store{clock: clk, rows: make(map[string]*contracts.ProductDTO)}
}

// Put stores p as if it had been committed.
func (s *Store) Put(p *domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(p)
}

// Delete removes a row, simulating a concurrent delete.
func (s *Store) Delete(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, productID)
}

// Product returns the stored aggregate, or nil.
func (s *Store) Product(productID string) *domain.Product {
	s.mu.Lock()
	dto, ok := s.rows[productID]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	p, err := dto.Product(s.clock)
	if err != nil {
		return nil
	}
	return p
}

func (s *Store) put(p *domain.Product) {
	if _, ok := s.rows[p.ID()]; !ok {
		s.order = append(s.order, p.ID())
	}
	s.rows[p.ID()] = contracts.NewProductDTO(p)
}

func (s *Store) InsertMut(p *domain.Product) *spanner.Mutation {
	s.Put(p)
	return spanner.Insert(m_product.TableName, []string{m_product.ProductID}, []any{p.ID()})
}

func (s *Store) UpdateMut(p *domain.Product) *spanner.Mutation {
	if !p.Changes().HasChanges() {
		return nil
	}
	s.mu.Lock()
	s.put(p)
	s.rows[p.ID()].Version = p.Version() + 1
	s.mu.Unlock()
	return spanner.Update(m_product.TableName, []string{m_product.ProductID}, []any{p.ID()})
}

func (s *Store) Load(_ context.Context, _ committer.Reader, productID string) (*domain.Product, error) {
	if s.BeforeLoad != nil {
		s.BeforeLoad(productID)
	}
	p := s.Product(productID)
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (s *Store) SelectIDs(_ context.Context, sel contracts.BulkSelection) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.order))
	for _, id := range s.order {
		dto, ok := s.rows[id]
		if !ok {
			continue
		}
		if sel.DiscountedOnly && dto.DiscountPercent == 0 {
			continue
		}
		if len(sel.Categories) > 0 && !slices.Contains(sel.Categories, dto.Category) {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Store) GetProduct(_ context.Context, productID string) (*contracts.ProductDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dto, ok := s.rows[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return dto, nil
}

func (s *Store) GetProducts(_ context.Context, productIDs []string) (map[string]*contracts.ProductDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*contracts.ProductDTO, len(productIDs))
	for _, id := range productIDs {
		if dto, ok := s.rows[id]; ok {
			out[id] = dto
		}
	}
	return out, nil
}

func (s *Store) ListProducts(_ context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := &contracts.ListResult{Products: make([]*contracts.ProductDTO, 0)}
	for _, id := range s.order {
		dto, ok := s.rows[id]
		if !ok {
			continue
		}
		if filter != nil && filter.Category != "" && dto.Category != filter.Category {
			continue
		}
		result.Products = append(result.Products, dto)
	}
	result.TotalCount = int64(len(result.Products))
	return result, nil
}
