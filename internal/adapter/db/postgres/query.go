package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"commerce-service/internal/domain/page"
)

// orderClause maps a client sort field to a column using an allow-list.
// Unknown fields fall back to def.
func orderClause(req page.Request, allowed map[string]string, def string) string {
	col, ok := allowed[req.Sort]
	if !ok {
		return def
	}
	if req.Desc {
		return col + " DESC"
	}
	return col + " ASC"
}

// paginate applies offset and limit for req.
func paginate(req page.Request) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.Size)
	}
}

// lockingClause returns SELECT ... FOR UPDATE on PostgreSQL and nothing on
// dialects without row locks.
func lockingClause(db *gorm.DB) []clause.Expression {
	if db.Dialector.Name() == "postgres" {
		return []clause.Expression{clause.Locking{Strength: clause.LockingStrengthUpdate}}
	}
	return nil
}
