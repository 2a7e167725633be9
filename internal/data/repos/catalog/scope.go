package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// visibleTo restricts q to the rows a client can see: its own plus the
// user's global rows. A nil clientID sees global rows only.
func visibleTo(q *gorm.DB, column string, clientID *uuid.UUID) *gorm.DB {
	if clientID == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where("("+column+" = ? OR "+column+" IS NULL)", *clientID)
}

// exactScope restricts q to a single scope: the given client, or global.
func exactScope(q *gorm.DB, column string, clientID *uuid.UUID) *gorm.DB {
	if clientID == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *clientID)
}

// clientFirst orders client-specific rows ahead of global ones.
func clientFirst(column string) string {
	return "CASE WHEN " + column + " IS NULL THEN 1 ELSE 0 END"
}
