package item

import (
	"time"

	"homestash/internal/domain/refcatalog"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusArchived
}

type Item struct {
	ID              string                `gorm:"type:uuid;primaryKey"`
	OwnerID         string                `gorm:"type:uuid;not null;index"`
	GroupID         string                `gorm:"type:uuid;not null;index"`
	ReferenceItemID *string               `gorm:"type:uuid"`
	CategoryID      *string               `gorm:"type:uuid"`
	Name            string                `gorm:"not null"`
	Description     string                `gorm:"not null;default:''"`
	Condition       refcatalog.Condition  `gorm:"type:varchar(1);not null"`
	Status          Status                `gorm:"type:varchar(16);not null;default:'active'"`
	CreatedAt       time.Time             `gorm:"autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"autoUpdateTime"`
}

func (Item) TableName() string {
	return "items"
}

type ItemImage struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	ItemID     string    `gorm:"type:uuid;not null;index"`
	BlobHandle string    `gorm:"not null"`
	ByteSize   int64     `gorm:"not null"`
	UploadedAt time.Time `gorm:"autoCreateTime"`
}

func (ItemImage) TableName() string {
	return "item_images"
}
