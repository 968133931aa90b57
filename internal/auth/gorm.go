package auth

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/betterpage/betterpage/internal/domain"
)

// GormUserRepository reads sys_user rows.
type GormUserRepository struct {
	db *gorm.DB
}

var _ UserRepository = (*GormUserRepository)(nil)

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*domain.SysUser, error) {
	var user domain.SysUser
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id int64) (*domain.SysUser, error) {
	var user domain.SysUser
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.SysUser{}).
		Where("id = ?", id).Update("last_login", at).Error
}

// GormSessionRepository stores sessions in sys_session.
type GormSessionRepository struct {
	db *gorm.DB
}

var _ SessionRepository = (*GormSessionRepository)(nil)

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Create(ctx context.Context, sess *domain.SysSession) error {
	return r.db.WithContext(ctx).Create(sess).Error
}

func (r *GormSessionRepository) GetByToken(ctx context.Context, token string) (*domain.SysSession, error) {
	var sess domain.SysSession
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&sess).Error
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *GormSessionRepository) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&domain.SysSession{}).Error
}

func (r *GormSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&domain.SysSession{})
	return res.RowsAffected, res.Error
}
