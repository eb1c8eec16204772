package db

import (
	"time"

	"gorm.io/datatypes"
)

// User roles and team roles. Admin-or-not is the only authorization
// distinction the platform makes.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	TeamRoleFounder = "founder"
	TeamRoleMember  = "member"
)

// Team membership types.
const (
	TeamTypeOpen       = "open"
	TeamTypeInviteOnly = "invite_only"
)

type User struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:256;not null" json:"-"`
	Role      string    `gorm:"size:16;not null;default:user" json:"role"`
	TeamID    *int      `gorm:"index" json:"teamId"`
	TeamRole  *string   `gorm:"size:16" json:"teamRole"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

type Team struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Color      string    `gorm:"size:16;not null;default:#000000" json:"color"`
	LogoURL    *string   `gorm:"size:512" json:"logoUrl"`
	Type       string    `gorm:"size:16;not null;default:open" json:"type"`
	InviteCode *string   `gorm:"size:32" json:"inviteCode"`
	Points     int       `gorm:"not null;default:0" json:"points"`
	Rank       int       `gorm:"default:0" json:"rank"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
}

type Category struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

type Question struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"size:1000;not null" json:"content"`
	CategoryID int       `gorm:"index;not null" json:"categoryId"`
	Points     int       `gorm:"not null;default:10" json:"points"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
}

// Settings is the singleton competition record. It lives at a fixed
// primary key and holds only the immutable timer anchors; remaining
// time is derived at read time by every observer.
type Settings struct {
	ID                  int        `gorm:"primaryKey" json:"id"`
	TimerDuration       int        `gorm:"not null;default:120" json:"timerDuration"`
	CurrentRoundTeam1ID *int       `json:"currentRoundTeam1Id"`
	CurrentRoundTeam2ID *int       `json:"currentRoundTeam2Id"`
	TimerActive         bool       `gorm:"not null;default:false" json:"timerActive"`
	TimerStartTime      *time.Time `json:"timerStartTime"`
	TimerStopTime       *time.Time `json:"timerStopTime"`
	CurrentPhase        string     `gorm:"size:16;not null;default:idle" json:"currentPhase"`
}

// SettingsID is the fixed key of the singleton settings row.
const SettingsID = 1

type Session struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    int       `gorm:"index;not null" json:"userId"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

type Event struct {
	ID        int            `gorm:"primaryKey" json:"id"`
	Type      string         `gorm:"size:64;not null" json:"type"`
	UserID    *int           `gorm:"index" json:"userId"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	CreatedAt time.Time      `gorm:"not null" json:"createdAt"`
}
