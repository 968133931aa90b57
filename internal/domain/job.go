package domain

import "time"

// JobPosting is an open position advertised on the site.
type JobPosting struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:200;index" json:"name"`
	PublishedAt Date      `gorm:"type:date" json:"publication_date"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (JobPosting) TableName() string {
	return "job_postings"
}
