package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betterpage/betterpage/internal/domain"
	"github.com/betterpage/betterpage/internal/store"
)

func newProduct(name string) *domain.Product {
	return &domain.Product{
		Name:        name,
		Price:       domain.MustMoney("10.00"),
		Description: "test product",
		Stock:       5,
	}
}

func TestCreateThenGetReturnsAssignedID(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	p := newProduct("widget")
	require.NoError(t, m.CreateProduct(ctx, p))
	require.NotZero(t, p.ID)

	got, err := m.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "widget", got.Name)
	assert.Equal(t, "10.00", got.Price.String())
	assert.Equal(t, 5, got.Stock)
}

func TestGetUnknownIDReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	_, err := m.GetProduct(ctx, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = m.GetSale(ctx, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateReflectsOnlyChangedFields(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	p := newProduct("widget")
	require.NoError(t, m.CreateProduct(ctx, p))

	p.Name = "renamed"
	require.NoError(t, m.UpdateProduct(ctx, p))

	got, err := m.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, "10.00", got.Price.String())
	assert.Equal(t, 5, got.Stock)
}

func TestListIsOrderedByID(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, m.CreateProduct(ctx, newProduct(name)))
	}

	rows, err := m.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].ID < rows[1].ID && rows[1].ID < rows[2].ID)
}

func TestSaleRequiresExistingProduct(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	sale := &domain.Sale{
		Name:      "big deal",
		ProductID: 999,
		Quantity:  1,
		Date:      domain.NewDate(2024, time.May, 17),
	}
	err := m.CreateSale(ctx, sale)
	var fkErr *store.ForeignKeyError
	require.True(t, errors.As(err, &fkErr))
	assert.Equal(t, int64(999), fkErr.ID)

	rows, err := m.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdateSaleRevalidatesProduct(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	p := newProduct("widget")
	require.NoError(t, m.CreateProduct(ctx, p))

	sale := &domain.Sale{Name: "deal", ProductID: p.ID, Quantity: 2, Date: domain.NewDate(2024, time.May, 17)}
	require.NoError(t, m.CreateSale(ctx, sale))

	sale.ProductID = 12345
	err := m.UpdateSale(ctx, sale)
	var fkErr *store.ForeignKeyError
	require.True(t, errors.As(err, &fkErr))

	// stored row is untouched
	got, err := m.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ProductID)
}

func TestDeleteProductCascadesSales(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	p := newProduct("widget")
	other := newProduct("other")
	require.NoError(t, m.CreateProduct(ctx, p))
	require.NoError(t, m.CreateProduct(ctx, other))

	s1 := &domain.Sale{Name: "s1", ProductID: p.ID, Quantity: 1, Date: domain.NewDate(2024, time.May, 1)}
	s2 := &domain.Sale{Name: "s2", ProductID: p.ID, Quantity: 2, Date: domain.NewDate(2024, time.May, 2)}
	s3 := &domain.Sale{Name: "s3", ProductID: other.ID, Quantity: 3, Date: domain.NewDate(2024, time.May, 3)}
	require.NoError(t, m.CreateSale(ctx, s1))
	require.NoError(t, m.CreateSale(ctx, s2))
	require.NoError(t, m.CreateSale(ctx, s3))

	require.NoError(t, m.DeleteProduct(ctx, p.ID))

	_, err := m.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = m.GetSale(ctx, s1.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = m.GetSale(ctx, s2.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// sales of other products survive
	got, err := m.GetSale(ctx, s3.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.ProductID)
}

func TestDeleteUnknownProductReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	assert.ErrorIs(t, m.DeleteProduct(ctx, 7), store.ErrNotFound)
	assert.ErrorIs(t, m.DeleteService(ctx, 7), store.ErrNotFound)
	assert.ErrorIs(t, m.DeleteNewsItem(ctx, 7), store.ErrNotFound)
	assert.ErrorIs(t, m.DeleteJobPosting(ctx, 7), store.ErrNotFound)
	assert.ErrorIs(t, m.DeleteSale(ctx, 7), store.ErrNotFound)
}

func TestEachEntityCRUD(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	svc := &domain.Service{Name: "hosting", Price: domain.MustMoney("49.90"), Description: "web hosting"}
	require.NoError(t, m.CreateService(ctx, svc))
	svc.Description = "managed hosting"
	require.NoError(t, m.UpdateService(ctx, svc))
	gotSvc, err := m.GetService(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "managed hosting", gotSvc.Description)
	require.NoError(t, m.DeleteService(ctx, svc.ID))

	news := &domain.NewsItem{Name: "launch", Date: domain.NewDate(2024, time.June, 1), Description: "launch day"}
	require.NoError(t, m.CreateNewsItem(ctx, news))
	gotNews, err := m.GetNewsItem(ctx, news.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", gotNews.Date.String())
	require.NoError(t, m.DeleteNewsItem(ctx, news.ID))

	job := &domain.JobPosting{Name: "developer", PublishedAt: domain.NewDate(2024, time.June, 2), Description: "come work here"}
	require.NoError(t, m.CreateJobPosting(ctx, job))
	jobs, err := m.ListJobPostings(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.NoError(t, m.DeleteJobPosting(ctx, job.ID))
}
