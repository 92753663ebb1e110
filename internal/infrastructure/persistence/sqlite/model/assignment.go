package model

type Assignment struct {
	ID          string `gorm:"column:id;type:text;primaryKey"`
	Name        string `gorm:"column:name;type:text;not null"`
	DisplayName string `gorm:"column:display_name;type:text"`
	Description string `gorm:"column:description;type:text"`
	Enabled     bool   `gorm:"column:enabled;not null;default:1"`
	DeleteFlag  bool   `gorm:"column:delete_flag;not null;default:0"`
	CreatedAt   string `gorm:"column:created_at;type:text;not null"`
}

func (Assignment) TableName() string {
	return "assignments"
}
