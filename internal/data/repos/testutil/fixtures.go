package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedClient(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, key string) *types.Client {
	tb.Helper()
	c := &types.Client{
		ID:        uuid.New(),
		UserID:    userID,
		ClientKey: key,
		Name:      key + " Inc",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed client: %v", err)
	}
	return c
}

func SeedPrompt(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, clientID *uuid.UUID, name string, kind types.PromptType, content string) *types.Prompt {
	tb.Helper()
	p := &types.Prompt{
		ID:       uuid.New(),
		UserID:   userID,
		ClientID: clientID,
		Name:     name,
		Type:     kind,
		Content:  content,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed prompt: %v", err)
	}
	return p
}

func SeedTemplate(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, clientID *uuid.UUID, name string, promptID *uuid.UUID) *types.Template {
	tb.Helper()
	t := &types.Template{
		ID:               uuid.New(),
		UserID:           userID,
		ClientID:         clientID,
		Name:             name,
		TemplatePromptID: promptID,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed template: %v", err)
	}
	return t
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
