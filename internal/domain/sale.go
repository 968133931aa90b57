package domain

import "time"

// Sale records a quantity of one Product sold on a given date. ProductID must
// reference an existing Product at write time; deleting that Product deletes
// the Sale as well (cascade handled explicitly by the store).
type Sale struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;index" json:"name"`
	ProductID int64     `gorm:"index;not null" json:"product_id"`
	Quantity  int       `json:"quantity"`
	Date      Date      `gorm:"type:date" json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Sale) TableName() string {
	return "sales"
}
