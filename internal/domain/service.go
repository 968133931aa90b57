package domain

import "time"

// Service is a standalone offering without stock tracking.
type Service struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:100;index" json:"name"`
	Price       Money     `gorm:"type:decimal(10,2)" json:"price"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}
