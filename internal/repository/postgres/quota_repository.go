package postgres

import (
	"context"
	"errors"
	"time"

	"fraudBench/business/quota"
	"fraudBench/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuotaRepository struct {
	DB *gorm.DB
}

func NewQuotaRepository(db *gorm.DB) *QuotaRepository {
	return &QuotaRepository{
		DB: db,
	}
}

func (r *QuotaRepository) CountForDay(ctx context.Context, userID uint, day time.Time) (int, error) {
	var record domain.QuotaRecord

	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, day).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return record.Count, nil
}

// IncrementWithLimit charges one upload through conditional updates so two
// overlapping requests can never push the counter past limit. The quota row
// is reused across days: a stale date is rolled forward in place.
func (r *QuotaRepository) IncrementWithLimit(ctx context.Context, userID uint, day time.Time, limit int) (int, error) {
	// Same-day increment, guarded by the limit.
	res := r.DB.WithContext(ctx).Model(&domain.QuotaRecord{}).
		Where("user_id = ? AND date = ? AND count < ?", userID, day, limit).
		Update("count", gorm.Expr("count + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 1 {
		return r.CountForDay(ctx, userID, day)
	}

	// Roll yesterday's record onto the new day.
	res = r.DB.WithContext(ctx).Model(&domain.QuotaRecord{}).
		Where("user_id = ? AND date <> ?", userID, day).
		Updates(map[string]interface{}{"count": 1, "date": day})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 1 {
		return 1, nil
	}

	// First upload ever for this user. ON CONFLICT DO NOTHING loses the
	// race silently when a concurrent request created the row first; in
	// that case retry the same-day increment once before declaring the
	// limit reached.
	record := domain.QuotaRecord{UserID: userID, Count: 1, Date: day}
	res = r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&record)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 1 {
		return 1, nil
	}

	res = r.DB.WithContext(ctx).Model(&domain.QuotaRecord{}).
		Where("user_id = ? AND date = ? AND count < ?", userID, day, limit).
		Update("count", gorm.Expr("count + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 1 {
		return r.CountForDay(ctx, userID, day)
	}

	return 0, quota.ErrLimitReached
}

// ResetAll zeroes every counter and stamps the new day. Runs from the
// midnight scheduler.
func (r *QuotaRepository) ResetAll(ctx context.Context, day time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&domain.QuotaRecord{}).
		Where("count <> 0 OR date <> ?", day).
		Updates(map[string]interface{}{"count": 0, "date": day})
	if res.Error != nil {
		return 0, res.Error
	}

	return res.RowsAffected, nil
}
