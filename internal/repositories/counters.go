package repositories

import (
	"database/sql"

	"gorm.io/gorm"
)

// adjustCounter applies a signed delta to a single integer column of one
// row, flooring the result at zero. The read and the write are separate
// statements; callers rely on the database serializing conflicting
// writes to the same row. A missing row surfaces as
// gorm.ErrRecordNotFound so callers can treat it as a no-op.
func adjustCounter(db *gorm.DB, model interface{}, id uint, column string, delta int) error {
	row := db.Model(model).Select(column).Where("id = ?", id).Row()
	var current int64
	if err := row.Scan(&current); err != nil {
		if err == sql.ErrNoRows {
			return gorm.ErrRecordNotFound
		}
		return err
	}

	next := current + int64(delta)
	if next < 0 {
		next = 0
	}
	return db.Model(model).Where("id = ?", id).UpdateColumn(column, next).Error
}
