package refcatalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Condition is the market grading scale, best to worst.
type Condition string

const (
	ConditionS Condition = "S"
	ConditionA Condition = "A"
	ConditionB Condition = "B"
	ConditionC Condition = "C"
	ConditionD Condition = "D"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionS, ConditionA, ConditionB, ConditionC, ConditionD:
		return true
	}
	return false
}

type ListingStatus string

const (
	ListingActive  ListingStatus = "active"
	ListingSold    ListingStatus = "sold"
	ListingRemoved ListingStatus = "removed"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case ListingActive, ListingSold, ListingRemoved:
		return true
	}
	return false
}

type ReferenceItem struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	CategoryID string    `gorm:"type:uuid;not null"`
	Name       string    `gorm:"not null"`
	Brand      *string   `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (ReferenceItem) TableName() string {
	return "reference_items"
}

type MarketListing struct {
	ID              string          `gorm:"type:uuid;primaryKey"`
	ReferenceItemID string          `gorm:"type:uuid;not null;index"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Condition       Condition       `gorm:"type:varchar(1);not null"`
	ListedOn        time.Time       `gorm:"not null"`
	Status          ListingStatus   `gorm:"type:varchar(16);not null"`
}

func (MarketListing) TableName() string {
	return "market_listings"
}

// ListingFilter narrows ListingsFor. Nil fields match everything.
type ListingFilter struct {
	Status *ListingStatus
	From   *time.Time
	To     *time.Time
}
