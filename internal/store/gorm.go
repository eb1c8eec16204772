package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mellon2025/sinjin/internal/db"
)

// Gorm is the Postgres-backed Store.
type Gorm struct {
	conn *gorm.DB
}

func NewGorm(conn *gorm.DB) *Gorm {
	return &Gorm{conn: conn}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}

func (g *Gorm) GetUser(ctx context.Context, id int) (*db.User, error) {
	var user db.User
	if err := g.conn.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (g *Gorm) GetUserByUsername(ctx context.Context, username string) (*db.User, error) {
	var user db.User
	if err := g.conn.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (g *Gorm) CreateUser(ctx context.Context, user *db.User) error {
	return translate(g.conn.WithContext(ctx).Create(user).Error)
}

func (g *Gorm) UpdateUserTeam(ctx context.Context, userID int, teamID *int, teamRole *string) (*db.User, error) {
	var user db.User
	err := g.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		user.TeamID = teamID
		user.TeamRole = teamRole
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (g *Gorm) ListTeams(ctx context.Context) ([]TeamWithCount, error) {
	var teams []db.Team
	if err := g.conn.WithContext(ctx).Order("points desc, id asc").Find(&teams).Error; err != nil {
		return nil, translate(err)
	}
	type teamCount struct {
		TeamID int
		Count  int
	}
	var counts []teamCount
	err := g.conn.WithContext(ctx).Model(&db.User{}).
		Select("team_id as team_id, count(*) as count").
		Where("team_id IS NOT NULL").
		Group("team_id").
		Scan(&counts).Error
	if err != nil {
		return nil, translate(err)
	}
	byTeam := make(map[int]int, len(counts))
	for _, c := range counts {
		byTeam[c.TeamID] = c.Count
	}
	list := make([]TeamWithCount, 0, len(teams))
	for _, team := range teams {
		list = append(list, TeamWithCount{Team: team, MemberCount: byTeam[team.ID]})
	}
	return list, nil
}

func (g *Gorm) GetTeam(ctx context.Context, id int) (*db.Team, error) {
	var team db.Team
	if err := g.conn.WithContext(ctx).First(&team, id).Error; err != nil {
		return nil, translate(err)
	}
	return &team, nil
}

func (g *Gorm) CreateTeam(ctx context.Context, team *db.Team) error {
	return translate(g.conn.WithContext(ctx).Create(team).Error)
}

func (g *Gorm) UpdateTeam(ctx context.Context, id int, apply func(*db.Team) error) (*db.Team, error) {
	var team db.Team
	err := g.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&team, id).Error; err != nil {
			return err
		}
		if err := apply(&team); err != nil {
			return err
		}
		return tx.Save(&team).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &team, nil
}

// DeleteTeam removes the team and clears the team reference on its
// members inside one transaction, so no user keeps a dangling team id.
func (g *Gorm) DeleteTeam(ctx context.Context, id int) error {
	err := g.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&db.Team{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&db.User{}).
			Where("team_id = ?", id).
			Updates(map[string]any{"team_id": nil, "team_role": nil}).Error
	})
	return translate(err)
}

func (g *Gorm) ListTeamMembers(ctx context.Context, teamID int) ([]db.User, error) {
	var members []db.User
	if err := g.conn.WithContext(ctx).Where("team_id = ?", teamID).Order("id asc").Find(&members).Error; err != nil {
		return nil, translate(err)
	}
	return members, nil
}

func (g *Gorm) ListCategories(ctx context.Context) ([]db.Category, error) {
	var categories []db.Category
	if err := g.conn.WithContext(ctx).Order("id asc").Find(&categories).Error; err != nil {
		return nil, translate(err)
	}
	return categories, nil
}

func (g *Gorm) CreateCategory(ctx context.Context, category *db.Category) error {
	return translate(g.conn.WithContext(ctx).Create(category).Error)
}

func (g *Gorm) DeleteCategory(ctx context.Context, id int) error {
	result := g.conn.WithContext(ctx).Delete(&db.Category{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) ListQuestions(ctx context.Context, categoryID *int) ([]db.Question, error) {
	query := g.conn.WithContext(ctx).Order("id asc")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	var questions []db.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, translate(err)
	}
	return questions, nil
}

func (g *Gorm) CreateQuestion(ctx context.Context, question *db.Question) error {
	return translate(g.conn.WithContext(ctx).Create(question).Error)
}

func (g *Gorm) DeleteQuestion(ctx context.Context, id int) error {
	result := g.conn.WithContext(ctx).Delete(&db.Question{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSettings returns the singleton row at the fixed key, creating the
// default record if absent. Create-if-absent is atomic: a concurrent
// create loses on the primary key and the winner's row is read back.
func (g *Gorm) GetSettings(ctx context.Context) (*db.Settings, error) {
	var settings db.Settings
	err := g.conn.WithContext(ctx).First(&settings, db.SettingsID).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate(err)
	}
	fresh := defaultSettings()
	if err := g.conn.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(fresh).Error; err != nil {
		return nil, translate(err)
	}
	if err := g.conn.WithContext(ctx).First(&settings, db.SettingsID).Error; err != nil {
		return nil, translate(err)
	}
	return &settings, nil
}

func (g *Gorm) UpdateSettings(ctx context.Context, apply func(*db.Settings) error) (*db.Settings, error) {
	if _, err := g.GetSettings(ctx); err != nil {
		return nil, err
	}
	var settings db.Settings
	err := g.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&settings, db.SettingsID).Error; err != nil {
			return err
		}
		if err := apply(&settings); err != nil {
			return err
		}
		// Save with Select so cleared anchors (nil pointers) are
		// written back as NULL rather than skipped.
		return tx.Model(&settings).Select("*").Updates(&settings).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &settings, nil
}

func (g *Gorm) AppendEvent(ctx context.Context, event *db.Event) error {
	return translate(g.conn.WithContext(ctx).Create(event).Error)
}

// ListEvents returns the most recent events in chronological order.
func (g *Gorm) ListEvents(ctx context.Context, limit int) ([]db.Event, error) {
	query := g.conn.WithContext(ctx).Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var events []db.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, translate(err)
	}
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

func (g *Gorm) SaveSession(ctx context.Context, session *db.Session) error {
	return translate(g.conn.WithContext(ctx).Save(session).Error)
}

func (g *Gorm) GetSession(ctx context.Context, id string) (*db.Session, error) {
	var session db.Session
	if err := g.conn.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (g *Gorm) DeleteSession(ctx context.Context, id string) error {
	return translate(g.conn.WithContext(ctx).Delete(&db.Session{}, "id = ?", id).Error)
}
