package model

import "time"

type Observation struct {
	ID         string     `gorm:"column:id;type:text;primaryKey"`
	Time       *time.Time `gorm:"column:time"`
	Bib        string     `gorm:"column:bib;type:text"`
	Location   string     `gorm:"column:location;type:text"`
	ReporterID *string    `gorm:"column:reporter_id;type:text;index"`
	CategoryID *string    `gorm:"column:category_id;type:text;index"`
	Notes      string     `gorm:"column:notes;type:text"`
	DeleteFlag bool       `gorm:"column:delete_flag;not null;default:0"`
	CreatedAt  string     `gorm:"column:created_at;type:text;not null"`
}

func (Observation) TableName() string {
	return "observations"
}
