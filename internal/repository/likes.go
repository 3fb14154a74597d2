package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// toggleMembership removes row from its join table if present, otherwise inserts it, in one
// transaction. It reports whether the row is present afterwards.
func toggleMembership(ctx context.Context, db *gorm.DB, model, row interface{}, cond map[string]interface{}) (bool, error) {
	var present bool
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where(cond).Delete(model)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			present = false
			return nil
		}
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
			return err
		}
		present = true
		return nil
	})
	return present, err
}

func countRows(ctx context.Context, db *gorm.DB, model interface{}, cond map[string]interface{}) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(model).Where(cond).Count(&n).Error
	return n, err
}

// incrementViews bumps only the views column; updated_at is left alone.
func incrementViews(ctx context.Context, db *gorm.DB, model interface{}, id uint) error {
	res := db.WithContext(ctx).Model(model).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
