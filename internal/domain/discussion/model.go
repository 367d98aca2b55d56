package discussion

import "time"

type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionHeart ReactionType = "heart"
	ReactionSmile ReactionType = "smile"
	ReactionSad   ReactionType = "sad"
	ReactionAgree ReactionType = "agree"
)

func (r ReactionType) Valid() bool {
	switch r {
	case ReactionLike, ReactionHeart, ReactionSmile, ReactionSad, ReactionAgree:
		return true
	}
	return false
}

type Thread struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ItemID    string    `gorm:"type:uuid;not null;uniqueIndex"`
	Title     string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Thread) TableName() string {
	return "threads"
}

type Message struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ThreadID  string    `gorm:"type:uuid;not null;index"`
	AuthorID  string    `gorm:"type:uuid;not null"`
	ParentID  *string   `gorm:"type:uuid;index"`
	Content   string    `gorm:"not null"`
	IsEdited  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Message) TableName() string {
	return "messages"
}

type MessageReaction struct {
	MessageID string       `gorm:"type:uuid;primaryKey"`
	UserID    string       `gorm:"type:uuid;primaryKey"`
	Type      ReactionType `gorm:"type:varchar(16);primaryKey"`
}

func (MessageReaction) TableName() string {
	return "message_reactions"
}

type MessageAttachment struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	MessageID  string    `gorm:"type:uuid;not null;index"`
	BlobHandle string    `gorm:"not null"`
	ByteSize   int64     `gorm:"not null"`
	UploadedAt time.Time `gorm:"autoCreateTime"`
}

func (MessageAttachment) TableName() string {
	return "message_attachments"
}
