package domain

import "time"

// Product is a catalog item offered on the site. It is the only entity other
// records may reference (Sale holds a required foreign key to it).
type Product struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:100;index" json:"name"`
	Price       Money     `gorm:"type:decimal(10,2)" json:"price"`
	Description string    `gorm:"type:text" json:"description"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
