package model

import "time"

type Event struct {
	ID             string     `gorm:"column:id;type:text;primaryKey"`
	EventNum       uint64     `gorm:"column:event_num;not null;index"`
	TimeIn         *time.Time `gorm:"column:time_in"`
	Bib            string     `gorm:"column:bib;type:text"`
	Reporter       string     `gorm:"column:reporter;type:text"`
	LocationID     *string    `gorm:"column:location_id;type:text;index"`
	AgencyID       *string    `gorm:"column:agency_id;type:text;index"`
	AgencyNotified *time.Time `gorm:"column:agency_notified"`
	AgencyArrival  *time.Time `gorm:"column:agency_arrival"`
	Resolved       *time.Time `gorm:"column:resolved"`
	Notes          string     `gorm:"column:notes;type:text"`
	DeleteFlag     bool       `gorm:"column:delete_flag;not null;default:0"`
	CreatedAt      string     `gorm:"column:created_at;type:text;not null"`
}

func (Event) TableName() string {
	return "events"
}
