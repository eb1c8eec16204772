package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mellon2025/sinjin/internal/db"
)

// Memory is a mutex-guarded in-process Store. It mirrors the SQL
// store's semantics, including unique-name conflicts and the cascade
// on team deletion, so handler tests can run without Postgres.
type Memory struct {
	mu             sync.Mutex
	nextUserID     int
	nextTeamID     int
	nextCategoryID int
	nextQuestionID int
	nextEventID    int
	users          map[int]db.User
	teams          map[int]db.Team
	categories     map[int]db.Category
	questions      map[int]db.Question
	settings       *db.Settings
	events         []db.Event
	sessions       map[string]db.Session
}

func NewMemory() *Memory {
	return &Memory{
		nextUserID:     1,
		nextTeamID:     1,
		nextCategoryID: 1,
		nextQuestionID: 1,
		nextEventID:    1,
		users:          make(map[int]db.User),
		teams:          make(map[int]db.Team),
		categories:     make(map[int]db.Category),
		questions:      make(map[int]db.Question),
		sessions:       make(map[string]db.Session),
	}
}

func (m *Memory) GetUser(ctx context.Context, id int) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			found := user
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateUser(ctx context.Context, user *db.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Username, user.Username) {
			return ErrConflict
		}
	}
	user.ID = m.nextUserID
	m.nextUserID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	m.users[user.ID] = *user
	return nil
}

func (m *Memory) UpdateUserTeam(ctx context.Context, userID int, teamID *int, teamRole *string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	user.TeamID = teamID
	user.TeamRole = teamRole
	m.users[userID] = user
	return &user, nil
}

func (m *Memory) ListTeams(ctx context.Context) ([]TeamWithCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[int]int)
	for _, user := range m.users {
		if user.TeamID != nil {
			counts[*user.TeamID]++
		}
	}
	list := make([]TeamWithCount, 0, len(m.teams))
	for _, team := range m.teams {
		list = append(list, TeamWithCount{Team: team, MemberCount: counts[team.ID]})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Points != list[j].Points {
			return list[i].Points > list[j].Points
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (m *Memory) GetTeam(ctx context.Context, id int) (*db.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	team, ok := m.teams[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &team, nil
}

func (m *Memory) CreateTeam(ctx context.Context, team *db.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.teams {
		if strings.EqualFold(existing.Name, team.Name) {
			return ErrConflict
		}
	}
	team.ID = m.nextTeamID
	m.nextTeamID++
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}
	m.teams[team.ID] = *team
	return nil
}

func (m *Memory) UpdateTeam(ctx context.Context, id int, apply func(*db.Team) error) (*db.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	team, ok := m.teams[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := apply(&team); err != nil {
		return nil, err
	}
	for _, existing := range m.teams {
		if existing.ID != id && strings.EqualFold(existing.Name, team.Name) {
			return nil, ErrConflict
		}
	}
	m.teams[id] = team
	return &team, nil
}

// DeleteTeam removes the team and clears the team reference on every
// member in the same locked section, so no member is left pointing at
// a deleted team.
func (m *Memory) DeleteTeam(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.teams[id]; !ok {
		return ErrNotFound
	}
	delete(m.teams, id)
	for userID, user := range m.users {
		if user.TeamID != nil && *user.TeamID == id {
			user.TeamID = nil
			user.TeamRole = nil
			m.users[userID] = user
		}
	}
	return nil
}

func (m *Memory) ListTeamMembers(ctx context.Context, teamID int) ([]db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := make([]db.User, 0)
	for _, user := range m.users {
		if user.TeamID != nil && *user.TeamID == teamID {
			members = append(members, user)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (m *Memory) ListCategories(ctx context.Context) ([]db.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]db.Category, 0, len(m.categories))
	for _, category := range m.categories {
		list = append(list, category)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *Memory) CreateCategory(ctx context.Context, category *db.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if strings.EqualFold(existing.Name, category.Name) {
			return ErrConflict
		}
	}
	category.ID = m.nextCategoryID
	m.nextCategoryID++
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}
	m.categories[category.ID] = *category
	return nil
}

func (m *Memory) DeleteCategory(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *Memory) ListQuestions(ctx context.Context, categoryID *int) ([]db.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]db.Question, 0, len(m.questions))
	for _, question := range m.questions {
		if categoryID != nil && question.CategoryID != *categoryID {
			continue
		}
		list = append(list, question)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *Memory) CreateQuestion(ctx context.Context, question *db.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	question.ID = m.nextQuestionID
	m.nextQuestionID++
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now().UTC()
	}
	m.questions[question.ID] = *question
	return nil
}

func (m *Memory) DeleteQuestion(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[id]; !ok {
		return ErrNotFound
	}
	delete(m.questions, id)
	return nil
}

func (m *Memory) GetSettings(ctx context.Context) (*db.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		m.settings = defaultSettings()
	}
	settings := *m.settings
	return &settings, nil
}

func (m *Memory) UpdateSettings(ctx context.Context, apply func(*db.Settings) error) (*db.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		m.settings = defaultSettings()
	}
	settings := *m.settings
	if err := apply(&settings); err != nil {
		return nil, err
	}
	m.settings = &settings
	result := settings
	return &result, nil
}

func (m *Memory) AppendEvent(ctx context.Context, event *db.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.ID = m.nextEventID
	m.nextEventID++
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	m.events = append(m.events, *event)
	return nil
}

func (m *Memory) ListEvents(ctx context.Context, limit int) ([]db.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]db.Event, len(m.events))
	copy(list, m.events)
	if limit > 0 && len(list) > limit {
		list = list[len(list)-limit:]
	}
	return list, nil
}

func (m *Memory) SaveSession(ctx context.Context, session *db.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	m.sessions[session.ID] = *session
	return nil
}

func (m *Memory) GetSession(ctx context.Context, id string) (*db.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (m *Memory) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
