package identity

import "time"

type User struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	LoginID        string    `gorm:"not null;uniqueIndex"`
	CredentialHash string    `gorm:"not null"`
	DisplayName    string    `gorm:"not null"`
	AvatarURL      *string   `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
