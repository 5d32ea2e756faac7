// Package testutil provides in-memory repositories and collaborators for
// application layer tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/domain/user"
	"github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/utils"
)

// Stored aggregates are copied in and out so callers never share state with
// the store, and version checks behave like the SQL repositories.

// MockCustomerRepository is an in-memory customer.Repository.
type MockCustomerRepository struct {
	mu     sync.RWMutex
	items  map[uint]*customer.Customer
	nextID uint

	// Err, when set, is returned by every call.
	Err error
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{items: make(map[uint]*customer.Customer)}
}

func copyCustomer(c *customer.Customer) *customer.Customer {
	out, _ := customer.ReconstructCustomer(c.ID(), c.SID(), c.Name(), c.Email(), c.Phone(), c.Version(), c.CreatedAt(), c.UpdatedAt())
	return out
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, existing := range m.items {
		if existing.Email() == c.Email() || existing.Phone() == c.Phone() {
			return errors.NewDuplicateError("customer with this email or phone already exists")
		}
	}
	m.nextID++
	if err := c.SetID(m.nextID); err != nil {
		return err
	}
	m.items[c.ID()] = copyCustomer(c)
	return nil
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	stored, ok := m.items[c.ID()]
	if !ok || stored.Version() != c.Version()-1 {
		return errors.NewConflictError("customer was modified concurrently, please retry")
	}
	m.items[c.ID()] = copyCustomer(c)
	return nil
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.items[id]; !ok {
		return customer.ErrCustomerNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id uint) (*customer.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if c, ok := m.items[id]; ok {
		return copyCustomer(c), nil
	}
	return nil, nil
}

func (m *MockCustomerRepository) GetBySID(ctx context.Context, sid string) (*customer.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.items {
		if c.SID() == sid {
			return copyCustomer(c), nil
		}
	}
	return nil, nil
}

func (m *MockCustomerRepository) GetByIDs(ctx context.Context, ids []uint) ([]*customer.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*customer.Customer, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.items[id]; ok {
			out = append(out, copyCustomer(c))
		}
	}
	return out, nil
}

func (m *MockCustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.items {
		if c.ID() != excludeID && c.Email() == email {
			return true, nil
		}
	}
	return false, m.Err
}

func (m *MockCustomerRepository) ExistsByPhone(ctx context.Context, phone string, excludeID uint) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.items {
		if c.ID() != excludeID && c.Phone() == phone {
			return true, nil
		}
	}
	return false, m.Err
}

func (m *MockCustomerRepository) List(ctx context.Context, filter customer.Filter) ([]*customer.Customer, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	search := strings.ToLower(filter.Search)
	var all []*customer.Customer
	for _, c := range m.items {
		if search == "" || strings.Contains(strings.ToLower(c.Name()+" "+c.Email()), search) {
			all = append(all, copyCustomer(c))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID() < all[j].ID() })
	return page(all, filter.Page, filter.PageSize), int64(len(all)), nil
}

// MockProductRepository is an in-memory product.Repository.
type MockProductRepository struct {
	mu     sync.RWMutex
	items  map[uint]*product.Product
	nextID uint

	Err error
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{items: make(map[uint]*product.Product)}
}

func (m *MockProductRepository) Create(ctx context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.nextID++
	if err := p.SetID(m.nextID); err != nil {
		return err
	}
	m.items[p.ID()] = p.Clone()
	return nil
}

func (m *MockProductRepository) Update(ctx context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	stored, ok := m.items[p.ID()]
	if !ok || stored.Version() != p.Version()-1 {
		return errors.NewConflictError("product was modified concurrently, please retry")
	}
	m.items[p.ID()] = p.Clone()
	return nil
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.items[id]; !ok {
		return product.ErrProductNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if p, ok := m.items[id]; ok {
		return p.Clone(), nil
	}
	return nil, nil
}

func (m *MockProductRepository) GetBySID(ctx context.Context, sid string) (*product.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.items {
		if p.SID() == sid {
			return p.Clone(), nil
		}
	}
	return nil, nil
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []uint) ([]*product.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.items[id]; ok {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (m *MockProductRepository) List(ctx context.Context, filter product.Filter) ([]*product.Product, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	search := strings.ToLower(filter.Search)
	var all []*product.Product
	for _, p := range m.items {
		terms := p.Terms()
		if filter.BillingType != nil && terms.BillingType != *filter.BillingType {
			continue
		}
		if filter.Source != nil && terms.Source != *filter.Source {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name()+" "+p.Description()), search) {
			continue
		}
		all = append(all, p.Clone())
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID() < all[j].ID() })
	return page(all, filter.Page, filter.PageSize), int64(len(all)), nil
}

// MockAssignmentRepository is an in-memory assignment.Repository.
type MockAssignmentRepository struct {
	mu     sync.RWMutex
	items  map[uint]*assignment.Assignment
	nextID uint

	Err error
	// UpdateCalls counts successful Update calls.
	UpdateCalls int
}

func NewMockAssignmentRepository() *MockAssignmentRepository {
	return &MockAssignmentRepository{items: make(map[uint]*assignment.Assignment)}
}

func copyAssignment(a *assignment.Assignment) *assignment.Assignment {
	out, _ := assignment.ReconstructAssignment(
		a.ID(), a.SID(), a.CustomerID(), a.ProductID(), a.Remarks(), a.DateAssigned(),
		a.Overrides(), a.Entries(), a.LastReminderSent(), a.Version(), a.CreatedAt(), a.UpdatedAt(),
	)
	return out
}

func (m *MockAssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, existing := range m.items {
		if existing.CustomerID() == a.CustomerID() && existing.ProductID() == a.ProductID() {
			return assignment.ErrDuplicateAssignment
		}
	}
	m.nextID++
	if err := a.SetID(m.nextID); err != nil {
		return err
	}
	a.MarkPersisted()
	m.items[a.ID()] = copyAssignment(a)
	return nil
}

func (m *MockAssignmentRepository) Update(ctx context.Context, a *assignment.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	stored, ok := m.items[a.ID()]
	if !ok || stored.Version() != a.PersistedVersion() {
		return errors.NewConflictError("mapping was modified concurrently, please retry")
	}
	a.MarkPersisted()
	m.items[a.ID()] = copyAssignment(a)
	m.UpdateCalls++
	return nil
}

func (m *MockAssignmentRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.items[id]; !ok {
		return assignment.ErrAssignmentNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MockAssignmentRepository) deleteWhere(match func(*assignment.Assignment) bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for id, a := range m.items {
		if match(a) {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

func (m *MockAssignmentRepository) DeleteByCustomerID(ctx context.Context, customerID uint) (int64, error) {
	return m.deleteWhere(func(a *assignment.Assignment) bool { return a.CustomerID() == customerID })
}

func (m *MockAssignmentRepository) DeleteByProductID(ctx context.Context, productID uint) (int64, error) {
	return m.deleteWhere(func(a *assignment.Assignment) bool { return a.ProductID() == productID })
}

func (m *MockAssignmentRepository) find(match func(*assignment.Assignment) bool) (*assignment.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, a := range m.items {
		if match(a) {
			return copyAssignment(a), nil
		}
	}
	return nil, nil
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id uint) (*assignment.Assignment, error) {
	return m.find(func(a *assignment.Assignment) bool { return a.ID() == id })
}

func (m *MockAssignmentRepository) GetBySID(ctx context.Context, sid string) (*assignment.Assignment, error) {
	return m.find(func(a *assignment.Assignment) bool { return a.SID() == sid })
}

func (m *MockAssignmentRepository) GetByPair(ctx context.Context, customerID, productID uint) (*assignment.Assignment, error) {
	return m.find(func(a *assignment.Assignment) bool {
		return a.CustomerID() == customerID && a.ProductID() == productID
	})
}

func (m *MockAssignmentRepository) ListByCustomerID(ctx context.Context, customerID uint) ([]*assignment.Assignment, error) {
	return m.List(ctx, assignment.Filter{CustomerID: &customerID})
}

func (m *MockAssignmentRepository) ListByProductID(ctx context.Context, productID uint) ([]*assignment.Assignment, error) {
	return m.List(ctx, assignment.Filter{ProductID: &productID})
}

func (m *MockAssignmentRepository) List(ctx context.Context, filter assignment.Filter) ([]*assignment.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []*assignment.Assignment
	for _, a := range m.items {
		if filter.CustomerID != nil && a.CustomerID() != *filter.CustomerID {
			continue
		}
		if filter.ProductID != nil && a.ProductID() != *filter.ProductID {
			continue
		}
		out = append(out, copyAssignment(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (m *MockAssignmentRepository) MarkReminderSent(ctx context.Context, id uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	a, ok := m.items[id]
	if !ok {
		return assignment.ErrAssignmentNotFound
	}
	sent := at
	updated, err := assignment.ReconstructAssignment(
		a.ID(), a.SID(), a.CustomerID(), a.ProductID(), a.Remarks(), a.DateAssigned(),
		a.Overrides(), a.Entries(), &sent, a.Version(), a.CreatedAt(), a.UpdatedAt(),
	)
	if err != nil {
		return err
	}
	m.items[id] = updated
	return nil
}

// Count returns the number of stored assignments.
func (m *MockAssignmentRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// MockUserRepository is an in-memory user.Repository.
type MockUserRepository struct {
	mu     sync.RWMutex
	items  map[uint]*user.User
	nextID uint

	Err error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{items: make(map[uint]*user.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, existing := range m.items {
		if existing.Email() == u.Email() {
			return user.ErrEmailTaken
		}
	}
	m.nextID++
	if err := u.SetID(m.nextID); err != nil {
		return err
	}
	m.items[u.ID()] = u
	return nil
}

func (m *MockUserRepository) find(match func(*user.User) bool) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.items {
		if match(u) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	return m.find(func(u *user.User) bool { return u.ID() == id })
}

func (m *MockUserRepository) GetBySID(ctx context.Context, sid string) (*user.User, error) {
	return m.find(func(u *user.User) bool { return u.SID() == sid })
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return m.find(func(u *user.User) bool { return u.Email() == strings.ToLower(strings.TrimSpace(email)) })
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := m.GetByEmail(ctx, email)
	return u != nil, err
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, u := range m.items {
		if u.Role() == role {
			n++
		}
	}
	return n, m.Err
}

func page[T any](items []T, p, size int) []T {
	if size <= 0 {
		return items
	}
	if p < 1 {
		p = 1
	}
	start, end := utils.ApplyPagination(len(items), p, size)
	return items[start:end]
}
