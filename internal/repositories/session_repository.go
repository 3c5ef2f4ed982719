package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"hairline/internal/models/db_models"
	"hairline/internal/session"
	"hairline/pkg/utils"
)

type sessionRepository struct {
	db     *gorm.DB
	sealer *utils.Sealer
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionRepository returns a gorm-backed session.Store. Tokens are
// sealed with sealer before being written.
func NewSessionRepository(db *gorm.DB, sealer *utils.Sealer, ttl time.Duration) session.Store {
	return &sessionRepository{db: db, sealer: sealer, ttl: ttl, now: time.Now}
}

func (r *sessionRepository) find(ctx context.Context, id string) (*db_models.Session, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	var row db_models.Session
	err = r.db.WithContext(ctx).First(&row, "id = ?", uid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if row.ExpiresAt != 0 && row.ExpiresAt <= r.now().Unix() {
		return nil, nil
	}
	return &row, nil
}

func (r *sessionRepository) Load(ctx context.Context, id string) (*session.Session, error) {
	row, err := r.find(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}

	s := &session.Session{ID: row.ID.String()}
	if s.AccessToken, err = r.sealer.Open(row.AccessToken); err != nil {
		return nil, fmt.Errorf("open access token: %w", err)
	}
	if s.RefreshToken, err = r.sealer.Open(row.RefreshToken); err != nil {
		return nil, fmt.Errorf("open refresh token: %w", err)
	}
	if len(row.Profile) > 0 && string(row.Profile) != "null" {
		var p session.Profile
		if err := json.Unmarshal(row.Profile, &p); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		s.Profile = &p
	}
	if row.TokenExpiresAt != 0 {
		s.ExpiresAt = time.Unix(row.TokenExpiresAt, 0)
	}
	return s, nil
}

func (r *sessionRepository) Save(ctx context.Context, s *session.Session) error {
	uid, err := uuid.Parse(s.ID)
	if err != nil {
		return utils.Invalid("session_id", "session id must be a uuid")
	}
	row := db_models.Session{BaseModel: db_models.BaseModel{ID: uid}}
	if row.AccessToken, err = r.sealer.Seal(s.AccessToken); err != nil {
		return err
	}
	if row.RefreshToken, err = r.sealer.Seal(s.RefreshToken); err != nil {
		return err
	}
	if s.Profile != nil {
		raw, err := json.Marshal(s.Profile)
		if err != nil {
			return err
		}
		row.Profile = raw
	}
	if !s.ExpiresAt.IsZero() {
		row.TokenExpiresAt = s.ExpiresAt.Unix()
	}
	if r.ttl > 0 {
		row.ExpiresAt = r.now().Add(r.ttl).Unix()
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token", "refresh_token", "profile", "token_expires_at", "expires_at", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (r *sessionRepository) Clear(ctx context.Context, id string) error {
	row, err := r.find(ctx, id)
	if err != nil || row == nil {
		return err
	}
	err = r.db.WithContext(ctx).Model(row).Updates(map[string]any{
		"access_token":     "",
		"refresh_token":    "",
		"profile":          nil,
		"token_expires_at": 0,
	}).Error
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}
