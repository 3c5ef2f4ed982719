package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"hairline/internal/models/db_models"
	"hairline/pkg/utils"
)

// FlowStateRepository is the durable flow storage. It satisfies the storage
// interfaces of the questionnaire, checkout and booking flows.
type FlowStateRepository interface {
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
	DeletePrefix(ctx context.Context, sessionID, prefix string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type flowStateRepository struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewFlowStateRepository(db *gorm.DB, ttl time.Duration) FlowStateRepository {
	return &flowStateRepository{db: db, ttl: ttl, now: time.Now}
}

func (r *flowStateRepository) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	var row db_models.FlowState
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND field_key = ?", sessionID, key).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if row.ExpiresAt != 0 && row.ExpiresAt <= r.now().Unix() {
		return "", false, nil
	}
	return row.Value, true, nil
}

func (r *flowStateRepository) Set(ctx context.Context, sessionID, key, value string) error {
	row := db_models.FlowState{SessionID: sessionID, FieldKey: key, Value: value}
	if r.ttl > 0 {
		row.ExpiresAt = r.now().Add(r.ttl).Unix()
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "field_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (r *flowStateRepository) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND field_key IN ?", sessionID, keys).
		Delete(&db_models.FlowState{}).Error
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (r *flowStateRepository) DeletePrefix(ctx context.Context, sessionID, prefix string) error {
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND SUBSTR(field_key, 1, ?) = ?", sessionID, len(prefix), prefix).
		Delete(&db_models.FlowState{}).Error
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (r *flowStateRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <> 0 AND expires_at <= ?", r.now().Unix()).
		Delete(&db_models.FlowState{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: %v", utils.ErrDatabaseError, res.Error)
	}
	return res.RowsAffected, nil
}
