// Package store holds the persistence boundary for the competition
// platform. Two implementations exist: a Postgres-backed store used in
// production and an in-memory store used by the tests and when no
// DATABASE_URL is configured.
package store

import (
	"context"
	"errors"

	"github.com/mellon2025/sinjin/internal/db"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// TeamWithCount is a team row joined with its member count.
type TeamWithCount struct {
	db.Team
	MemberCount int `json:"memberCount"`
}

type Store interface {
	// Users
	GetUser(ctx context.Context, id int) (*db.User, error)
	GetUserByUsername(ctx context.Context, username string) (*db.User, error)
	CreateUser(ctx context.Context, user *db.User) error
	UpdateUserTeam(ctx context.Context, userID int, teamID *int, teamRole *string) (*db.User, error)

	// Teams
	ListTeams(ctx context.Context) ([]TeamWithCount, error)
	GetTeam(ctx context.Context, id int) (*db.Team, error)
	CreateTeam(ctx context.Context, team *db.Team) error
	UpdateTeam(ctx context.Context, id int, apply func(*db.Team) error) (*db.Team, error)
	DeleteTeam(ctx context.Context, id int) error
	ListTeamMembers(ctx context.Context, teamID int) ([]db.User, error)

	// Categories
	ListCategories(ctx context.Context) ([]db.Category, error)
	CreateCategory(ctx context.Context, category *db.Category) error
	DeleteCategory(ctx context.Context, id int) error

	// Questions
	ListQuestions(ctx context.Context, categoryID *int) ([]db.Question, error)
	CreateQuestion(ctx context.Context, question *db.Question) error
	DeleteQuestion(ctx context.Context, id int) error

	// Settings: the singleton competition record. GetSettings creates
	// the default row if absent; UpdateSettings applies a closure to
	// the current row and persists the result as one operation.
	GetSettings(ctx context.Context) (*db.Settings, error)
	UpdateSettings(ctx context.Context, apply func(*db.Settings) error) (*db.Settings, error)

	// Audit events
	AppendEvent(ctx context.Context, event *db.Event) error
	ListEvents(ctx context.Context, limit int) ([]db.Event, error)

	// Sessions
	SaveSession(ctx context.Context, session *db.Session) error
	GetSession(ctx context.Context, id string) (*db.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

func defaultSettings() *db.Settings {
	return &db.Settings{
		ID:            db.SettingsID,
		TimerDuration: 120,
		CurrentPhase:  "idle",
	}
}
