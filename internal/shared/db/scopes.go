package db

import (
	"gorm.io/gorm"
)

// Paginate applies LIMIT/OFFSET for 1-based pages. Non-positive sizes leave the query unbounded.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// OrderBy applies a whitelisted sort column, falling back to fallback.
func OrderBy(allowed map[string]string, sortBy string, desc bool, fallback string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column, ok := allowed[sortBy]
		if !ok {
			column = fallback
		}
		if desc {
			return db.Order(column + " DESC")
		}
		return db.Order(column + " ASC")
	}
}
