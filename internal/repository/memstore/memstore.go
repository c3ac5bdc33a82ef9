// Package memstore keeps every repository in process memory. It mirrors the
// constraints the Postgres schema enforces and counts store calls, so tests
// can assert that a request never reached the store.
package memstore

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"bakery-api/internal/domain"
	"bakery-api/internal/repository"

	"github.com/google/uuid"
)

// Store holds the four collections behind one lock.
type Store struct {
	mu        sync.RWMutex
	calls     atomic.Int64
	seq       int64
	users     map[uuid.UUID]*domain.User
	products  map[uuid.UUID]*domain.Product
	movements map[uuid.UUID]*domain.InventoryMovement
	events    map[uuid.UUID]*domain.Event
	order     map[uuid.UUID]int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:     make(map[uuid.UUID]*domain.User),
		products:  make(map[uuid.UUID]*domain.Product),
		movements: make(map[uuid.UUID]*domain.InventoryMovement),
		events:    make(map[uuid.UUID]*domain.Event),
		order:     make(map[uuid.UUID]int64),
	}
}

// Calls reports how many repository methods have been invoked.
func (s *Store) Calls() int64 {
	return s.calls.Load()
}

func (s *Store) Users() repository.UserRepository { return userRepo{s} }
func (s *Store) Products() repository.ProductRepository { return productRepo{s} }
func (s *Store) Inventory() repository.InventoryRepository { return inventoryRepo{s} }
func (s *Store) Events() repository.EventRepository { return eventRepo{s} }

func (s *Store) enter() {
	s.calls.Add(1)
}

func (s *Store) stamp(id uuid.UUID) {
	s.seq++
	s.order[id] = s.seq
}

// newestFirst orders by insertion, which tracks created_at for these tests.
func newestFirst[T any](s *Store, items []T, id func(T) uuid.UUID) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && s.order[id(items[j-1])] < s.order[id(items[j])]; j-- {
			items[j-1], items[j] = items[j], items[j-1]
		}
	}
}

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.enter()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrUserAlreadyExists
		}
	}
	c := *user
	r.s.users[user.ID] = &c
	r.s.stamp(user.ID)
	return nil
}

func (r userRepo) Update(ctx context.Context, user *domain.User) error {
	r.s.enter()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	for id, u := range r.s.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return repository.ErrUserAlreadyExists
		}
	}
	c := *user
	c.CreatedAt = existing.CreatedAt
	r.s.users[user.ID] = &c
	return nil
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.enter()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r userRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.enter()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r userRepo) List(ctx context.Context) ([]*domain.User, error) {
	r.s.enter()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := []*domain.User{}
	for _, u := range r.s.users {
		c := *u
		users = append(users, &c)
	}
	newestFirst(r.s, users, func(u *domain.User) uuid.UUID { return u.ID })
	return users, nil
}

type productRepo struct{ s *Store }

func (r productRepo) skuTaken(sku string, except uuid.UUID) bool {
	for id, p := range r.s.products {
		if id != except && strings.EqualFold(p.SKU, sku) {
			return true
		}
	}
	return false
}

func (r productRepo) Create(ctx context.Context, product *domain.Product) error {
	r.s.enter()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.skuTaken(product.SKU, uuid.Nil) {
		return repository.ErrSKUAlreadyExists
	}
	if product.Stock < 0 || product.Price.IsNegative() {
		return repository.ErrConstraintViolated
	}
	c := *product
	r.s.products[product.ID] = &c
	r.s.stamp(product.ID)
	return nil
}

func (r productRepo) Update(ctx context.Context, product *domain.Product) error {
	r.s.enter()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.products[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	if r.skuTaken(product.SKU, product.ID) {
		return repository.ErrSKUAlreadyExists
	}
	if product.Stock < 0 || product.Price.IsNegative() {
		return repository.ErrConstraintViolated
	}
	c := *product
	c.CreatedAt = existing.CreatedAt
	r.s.products[product.ID] = &c
	return nil
}

func (r productRepo) DeleteBySKU(ctx context.Context, sku string) error {
	r.s.enter()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, p := range r.s.products {
		if !strings.EqualFold(p.SKU, sku) {
			continue
		}
		for _, m := range r.s.movements {
			if m.ProductID == id {
				return repository.ErrProductInUse
			}
		}
		delete(r.s.products, id)
		return nil
	}
	return repository.ErrProductNotFound
}

func (r productRepo) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	r.s.enter()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.products {
		if strings.EqualFold(p.SKU, sku) {
			c := *p
			return &c, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (r productRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	r.s.enter()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	c := *p
	return &c, nil
}

func (r productRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	r.s.enter()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := []*domain.Product{}
	for _, p := range r.s.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		c := *p
		products = append(products, &c)
	}
	newestFirst(r.s, products, func(p *domain.Product) uuid.UUID { return p.ID })
	return products, nil
}

type inventoryRepo struct{ s *Store }

func (r inventoryRepo) Create(ctx context.Context, movement *domain.InventoryMovement) error {
	r.s.enter()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[movement.ProductID]; !ok {
		return repository.ErrReferenceNotFound
	}
	if movement.UserID != nil {
		if _, ok := r.s.users[*movement.UserID]; !ok {
			return repository.ErrUserReference
		}
	}
	c := *movement
	c.Product, c.User = nil, nil
	r.s.movements[movement.ID] = &c
	r.s.stamp(movement.ID)
	return nil
}

func (r inventoryRepo) Update(ctx context.Context, movement *domain.InventoryMovement) error {
	r.s.enter()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.movements[movement.ID]
	if !ok {
		return repository.ErrMovementNotFound
	}
	if _, ok := r.s.products[movement.ProductID]; !ok {
		return repository.ErrReferenceNotFound
	}
	c := *movement
	c.Product, c.User = nil, nil
	c.UserID = existing.UserID
	c.CreatedAt = existing.CreatedAt
	r.s.movements[movement.ID] = &c
	return nil
}

func (r inventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.enter()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.movements[id]; !ok {
		return repository.ErrMovementNotFound
	}
	delete(r.s.movements, id)
	return nil
}

func (r inventoryRepo) FindByID(ctx context.Context, id uuid.UUID, expand repository.InventoryExpand) (*domain.InventoryMovement, error) {
	r.s.enter()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.movements[id]
	if !ok {
		return nil, repository.ErrMovementNotFound
	}
	return r.expand(m, expand), nil
}

func (r inventoryRepo) List(ctx context.Context, filter repository.InventoryFilter, expand repository.InventoryExpand) ([]*domain.InventoryMovement, error) {
	r.s.enter()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	movements := []*domain.InventoryMovement{}
	for _, m := range r.s.movements {
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.Movement != "" && m.Movement != filter.Movement {
			continue
		}
		movements = append(movements, r.expand(m, expand))
	}
	newestFirst(r.s, movements, func(m *domain.InventoryMovement) uuid.UUID { return m.ID })
	return movements, nil
}

func (r inventoryRepo) expand(m *domain.InventoryMovement, expand repository.InventoryExpand) *domain.InventoryMovement {
	c := *m
	if p, ok := r.s.products[m.ProductID]; ok && expand.Product {
		c.Product = &domain.ProductSummary{ID: p.ID, Name: p.Name, SKU: p.SKU}
	}
	if m.UserID != nil && expand.User {
		if u, ok := r.s.users[*m.UserID]; ok {
			c.User = &domain.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
	return &c
}

type eventRepo struct{ s *Store }

func (r eventRepo) Create(ctx context.Context, event *domain.Event) error {
	r.s.enter()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if event.EndDate.Before(event.StartDate) {
		return repository.ErrInvalidDateRange
	}
	c := *event
	c.Organizer = nil
	r.s.events[event.ID] = &c
	r.s.stamp(event.ID)
	return nil
}

func (r eventRepo) Update(ctx context.Context, event *domain.Event) error {
	r.s.enter()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.events[event.ID]
	if !ok {
		return repository.ErrEventNotFound
	}
	if event.EndDate.Before(event.StartDate) {
		return repository.ErrInvalidDateRange
	}
	c := *event
	c.Organizer = nil
	c.OrganizerID = existing.OrganizerID
	c.CreatedAt = existing.CreatedAt
	r.s.events[event.ID] = &c
	return nil
}

func (r eventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.enter()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(r.s.events, id)
	return nil
}

func (r eventRepo) FindByID(ctx context.Context, id uuid.UUID, expand repository.EventExpand) (*domain.Event, error) {
	r.s.enter()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	return r.expand(e, expand), nil
}

func (r eventRepo) List(ctx context.Context, filter repository.EventFilter, expand repository.EventExpand) ([]*domain.Event, error) {
	r.s.enter()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	events := []*domain.Event{}
	for _, e := range r.s.events {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		events = append(events, r.expand(e, expand))
	}
	newestFirst(r.s, events, func(e *domain.Event) uuid.UUID { return e.ID })
	return events, nil
}

func (r eventRepo) expand(e *domain.Event, expand repository.EventExpand) *domain.Event {
	c := *e
	if e.OrganizerID != nil && expand.Organizer {
		if u, ok := r.s.users[*e.OrganizerID]; ok {
			c.Organizer = &domain.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
	return &c
}
