package group

import "time"

type Role string

const (
	RolePoster Role = "poster"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	return r == RolePoster || r == RoleViewer
}

type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

func (a Action) Valid() bool {
	return a == ActionRead || a == ActionWrite
}

// Can is the capability table: posters read and write, viewers read.
func Can(role Role, action Action) bool {
	switch role {
	case RolePoster:
		return action == ActionRead || action == ActionWrite
	case RoleViewer:
		return action == ActionRead
	default:
		return false
	}
}

type FamilyGroup struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (FamilyGroup) TableName() string {
	return "family_groups"
}

type Membership struct {
	GroupID  string    `gorm:"type:uuid;primaryKey"`
	UserID   string    `gorm:"type:uuid;primaryKey"`
	Role     Role      `gorm:"type:varchar(16);not null"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

func (Membership) TableName() string {
	return "memberships"
}
