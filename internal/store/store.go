// Package store is the persistence gateway for the five site entities. All
// access to the relational backend goes through the Gateway interface; the
// HTTP layer never issues queries of its own.
package store

import (
	"context"

	"github.com/betterpage/betterpage/internal/domain"
)

// Gateway exposes typed CRUD over the site entities. List results are ordered
// by ascending id. Writes return ErrNotFound, *ValidationError or
// *ForeignKeyError for caller mistakes; any other error is a transient
// backend failure.
type Gateway interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	// DeleteProduct removes the product and every Sale referencing it in one
	// atomic step.
	DeleteProduct(ctx context.Context, id int64) error

	ListServices(ctx context.Context) ([]domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	CreateService(ctx context.Context, s *domain.Service) error
	UpdateService(ctx context.Context, s *domain.Service) error
	DeleteService(ctx context.Context, id int64) error

	ListNewsItems(ctx context.Context) ([]domain.NewsItem, error)
	GetNewsItem(ctx context.Context, id int64) (*domain.NewsItem, error)
	CreateNewsItem(ctx context.Context, n *domain.NewsItem) error
	UpdateNewsItem(ctx context.Context, n *domain.NewsItem) error
	DeleteNewsItem(ctx context.Context, id int64) error

	ListJobPostings(ctx context.Context) ([]domain.JobPosting, error)
	GetJobPosting(ctx context.Context, id int64) (*domain.JobPosting, error)
	CreateJobPosting(ctx context.Context, j *domain.JobPosting) error
	UpdateJobPosting(ctx context.Context, j *domain.JobPosting) error
	DeleteJobPosting(ctx context.Context, id int64) error

	ListSales(ctx context.Context) ([]domain.Sale, error)
	GetSale(ctx context.Context, id int64) (*domain.Sale, error)
	// CreateSale and UpdateSale re-validate the Product foreign key on every
	// write.
	CreateSale(ctx context.Context, s *domain.Sale) error
	UpdateSale(ctx context.Context, s *domain.Sale) error
	DeleteSale(ctx context.Context, id int64) error

	// Ping reports backend availability.
	Ping(ctx context.Context) error
}
