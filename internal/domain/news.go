package domain

import "time"

// NewsItem is a dated announcement published on the site.
type NewsItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:200;index" json:"name"`
	Date        Date      `gorm:"type:date" json:"date"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (NewsItem) TableName() string {
	return "news_items"
}
