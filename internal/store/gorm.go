package store

import (
	"context"
	goerrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/betterpage/betterpage/internal/domain"
)

// GormStore is the gorm-backed Gateway implementation.
type GormStore struct {
	db *gorm.DB
}

var _ Gateway = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "database unavailable")
	}
	return errors.Wrap(sqlDB.PingContext(ctx), "database unavailable")
}

// translate maps gorm errors onto the gateway taxonomy.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	if goerrors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// --- Product ---

func (s *GormStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var rows []domain.Product
	err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, translate(err, "list products")
}

func (s *GormStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err, "get product")
	}
	return &p, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	return translate(s.db.WithContext(ctx).Create(p).Error, "create product")
}

func (s *GormStore) UpdateProduct(ctx context.Context, p *domain.Product) error {
	return translate(s.db.WithContext(ctx).Save(p).Error, "update product")
}

// DeleteProduct removes the product and its sales inside one transaction so
// no intermediate state is ever visible.
func (s *GormStore) DeleteProduct(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&domain.Sale{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if goerrors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return translate(err, "delete product")
}

// --- Service ---

func (s *GormStore) ListServices(ctx context.Context) ([]domain.Service, error) {
	var rows []domain.Service
	err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, translate(err, "list services")
}

func (s *GormStore) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	var rec domain.Service
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, translate(err, "get service")
	}
	return &rec, nil
}

func (s *GormStore) CreateService(ctx context.Context, rec *domain.Service) error {
	return translate(s.db.WithContext(ctx).Create(rec).Error, "create service")
}

func (s *GormStore) UpdateService(ctx context.Context, rec *domain.Service) error {
	return translate(s.db.WithContext(ctx).Save(rec).Error, "update service")
}

func (s *GormStore) DeleteService(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, &domain.Service{}, id, "delete service")
}

// --- NewsItem ---

func (s *GormStore) ListNewsItems(ctx context.Context) ([]domain.NewsItem, error) {
	var rows []domain.NewsItem
	err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, translate(err, "list news")
}

func (s *GormStore) GetNewsItem(ctx context.Context, id int64) (*domain.NewsItem, error) {
	var rec domain.NewsItem
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, translate(err, "get news item")
	}
	return &rec, nil
}

func (s *GormStore) CreateNewsItem(ctx context.Context, rec *domain.NewsItem) error {
	return translate(s.db.WithContext(ctx).Create(rec).Error, "create news item")
}

func (s *GormStore) UpdateNewsItem(ctx context.Context, rec *domain.NewsItem) error {
	return translate(s.db.WithContext(ctx).Save(rec).Error, "update news item")
}

func (s *GormStore) DeleteNewsItem(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, &domain.NewsItem{}, id, "delete news item")
}

// --- JobPosting ---

func (s *GormStore) ListJobPostings(ctx context.Context) ([]domain.JobPosting, error) {
	var rows []domain.JobPosting
	err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, translate(err, "list job postings")
}

func (s *GormStore) GetJobPosting(ctx context.Context, id int64) (*domain.JobPosting, error) {
	var rec domain.JobPosting
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, translate(err, "get job posting")
	}
	return &rec, nil
}

func (s *GormStore) CreateJobPosting(ctx context.Context, rec *domain.JobPosting) error {
	return translate(s.db.WithContext(ctx).Create(rec).Error, "create job posting")
}

func (s *GormStore) UpdateJobPosting(ctx context.Context, rec *domain.JobPosting) error {
	return translate(s.db.WithContext(ctx).Save(rec).Error, "update job posting")
}

func (s *GormStore) DeleteJobPosting(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, &domain.JobPosting{}, id, "delete job posting")
}

// --- Sale ---

func (s *GormStore) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var rows []domain.Sale
	err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, translate(err, "list sales")
}

func (s *GormStore) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	var rec domain.Sale
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, translate(err, "get sale")
	}
	return &rec, nil
}

func (s *GormStore) CreateSale(ctx context.Context, rec *domain.Sale) error {
	if err := s.checkSaleProduct(ctx, rec.ProductID); err != nil {
		return err
	}
	return translate(s.db.WithContext(ctx).Create(rec).Error, "create sale")
}

func (s *GormStore) UpdateSale(ctx context.Context, rec *domain.Sale) error {
	if err := s.checkSaleProduct(ctx, rec.ProductID); err != nil {
		return err
	}
	return translate(s.db.WithContext(ctx).Save(rec).Error, "update sale")
}

func (s *GormStore) DeleteSale(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, &domain.Sale{}, id, "delete sale")
}

func (s *GormStore) checkSaleProduct(ctx context.Context, productID int64) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", productID).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "check sale product")
	}
	if count == 0 {
		return &ForeignKeyError{Field: "product", ID: productID}
	}
	return nil
}

func (s *GormStore) deleteByID(ctx context.Context, model interface{}, id int64, msg string) error {
	res := s.db.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return translate(res.Error, msg)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
