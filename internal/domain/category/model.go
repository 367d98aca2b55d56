package category

type Category struct {
	ID       string  `gorm:"type:uuid;primaryKey"`
	Name     string  `gorm:"not null"`
	ParentID *string `gorm:"type:uuid;index"`
}

func (Category) TableName() string {
	return "categories"
}
