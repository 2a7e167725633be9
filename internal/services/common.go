package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/promptdesk-backend/internal/data/repos"
	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/promptdesk-backend/internal/pkg/errors"
	"github.com/yungbote/promptdesk-backend/internal/platform/ctxutil"
)

func requireUser(dbc dbctx.Context) (uuid.UUID, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("request data not set in context: %w", pkgerrors.ErrUnauthorized)
	}
	return userID, nil
}

// resolveClient maps an operator-visible client key onto the client row.
// An empty key means the global scope and resolves to nil.
func resolveClient(dbc dbctx.Context, clientRepo repos.ClientRepo, userID uuid.UUID, key string) (*types.Client, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	found, err := clientRepo.GetByKeys(dbc, userID, []string{key})
	if err != nil {
		return nil, fmt.Errorf("lookup client: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("client %q: %w", key, pkgerrors.ErrNotFound)
	}
	return found[0], nil
}

func clientIDOf(c *types.Client) *uuid.UUID {
	if c == nil {
		return nil
	}
	id := c.ID
	return &id
}

// inTx runs fn in a transaction, nesting inside dbc.Tx when one is already open.
func inTx(db *gorm.DB, dbc dbctx.Context, fn func(dbctx.Context) error) error {
	base := dbc.Tx
	if base == nil {
		base = db
	}
	return base.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbc.WithTx(tx))
	})
}
