package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/betterpage/betterpage/internal/domain"
)

// Memory is an in-memory Gateway for development and tests. A single mutex
// serializes all access, so conflicting writes resolve last-write-wins the
// same way the database does.
type Memory struct {
	mu sync.Mutex

	products map[int64]domain.Product
	services map[int64]domain.Service
	news     map[int64]domain.NewsItem
	jobs     map[int64]domain.JobPosting
	sales    map[int64]domain.Sale

	nextID map[string]int64
}

var _ Gateway = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		products: make(map[int64]domain.Product),
		services: make(map[int64]domain.Service),
		news:     make(map[int64]domain.NewsItem),
		jobs:     make(map[int64]domain.JobPosting),
		sales:    make(map[int64]domain.Sale),
		nextID:   make(map[string]int64),
	}
}

func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

func (m *Memory) assign(table string) int64 {
	m.nextID[table]++
	return m.nextID[table]
}

// --- Product ---

func (m *Memory) ListProducts(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (m *Memory) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *Memory) CreateProduct(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.assign("products")
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	m.products[p.ID] = *p
	return nil
}

func (m *Memory) UpdateProduct(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	m.products[p.ID] = *p
	return nil
}

func (m *Memory) DeleteProduct(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	// cascade under the same lock, so product and sales vanish together
	delete(m.products, id)
	for saleID, sale := range m.sales {
		if sale.ProductID == id {
			delete(m.sales, saleID)
		}
	}
	return nil
}

// --- Service ---

func (m *Memory) ListServices(ctx context.Context) ([]domain.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]domain.Service, 0, len(m.services))
	for _, s := range m.services {
		rows = append(rows, s)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (m *Memory) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.services[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *Memory) CreateService(ctx context.Context, s *domain.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.assign("services")
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now
	m.services[s.ID] = *s
	return nil
}

func (m *Memory) UpdateService(ctx context.Context, s *domain.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.services[s.ID]; !ok {
		return ErrNotFound
	}
	s.UpdatedAt = time.Now()
	m.services[s.ID] = *s
	return nil
}

func (m *Memory) DeleteService(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.services[id]; !ok {
		return ErrNotFound
	}
	delete(m.services, id)
	return nil
}

// --- NewsItem ---

func (m *Memory) ListNewsItems(ctx context.Context) ([]domain.NewsItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]domain.NewsItem, 0, len(m.news))
	for _, n := range m.news {
		rows = append(rows, n)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (m *Memory) GetNewsItem(ctx context.Context, id int64) (*domain.NewsItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.news[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &n, nil
}

func (m *Memory) CreateNewsItem(ctx context.Context, n *domain.NewsItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = m.assign("news_items")
	now := time.Now()
	n.CreatedAt, n.UpdatedAt = now, now
	m.news[n.ID] = *n
	return nil
}

func (m *Memory) UpdateNewsItem(ctx context.Context, n *domain.NewsItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.news[n.ID]; !ok {
		return ErrNotFound
	}
	n.UpdatedAt = time.Now()
	m.news[n.ID] = *n
	return nil
}

func (m *Memory) DeleteNewsItem(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.news[id]; !ok {
		return ErrNotFound
	}
	delete(m.news, id)
	return nil
}

// --- JobPosting ---

func (m *Memory) ListJobPostings(ctx context.Context) ([]domain.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]domain.JobPosting, 0, len(m.jobs))
	for _, j := range m.jobs {
		rows = append(rows, j)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (m *Memory) GetJobPosting(ctx context.Context, id int64) (*domain.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &j, nil
}

func (m *Memory) CreateJobPosting(ctx context.Context, j *domain.JobPosting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j.ID = m.assign("job_postings")
	now := time.Now()
	j.CreatedAt, j.UpdatedAt = now, now
	m.jobs[j.ID] = *j
	return nil
}

func (m *Memory) UpdateJobPosting(ctx context.Context, j *domain.JobPosting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[j.ID]; !ok {
		return ErrNotFound
	}
	j.UpdatedAt = time.Now()
	m.jobs[j.ID] = *j
	return nil
}

func (m *Memory) DeleteJobPosting(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(m.jobs, id)
	return nil
}

// --- Sale ---

func (m *Memory) ListSales(ctx context.Context) ([]domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]domain.Sale, 0, len(m.sales))
	for _, s := range m.sales {
		rows = append(rows, s)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (m *Memory) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *Memory) CreateSale(ctx context.Context, s *domain.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[s.ProductID]; !ok {
		return &ForeignKeyError{Field: "product", ID: s.ProductID}
	}
	s.ID = m.assign("sales")
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now
	m.sales[s.ID] = *s
	return nil
}

func (m *Memory) UpdateSale(ctx context.Context, s *domain.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sales[s.ID]; !ok {
		return ErrNotFound
	}
	if _, ok := m.products[s.ProductID]; !ok {
		return &ForeignKeyError{Field: "product", ID: s.ProductID}
	}
	s.UpdatedAt = time.Now()
	m.sales[s.ID] = *s
	return nil
}

func (m *Memory) DeleteSale(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sales[id]; !ok {
		return ErrNotFound
	}
	delete(m.sales, id)
	return nil
}
