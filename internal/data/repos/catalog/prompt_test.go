package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/promptdesk-backend/internal/data/repos/testutil"
	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
)

func TestPromptRepoScope(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewPromptRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, dbc.Ctx, tx, "promptrepo@example.com")
	acme := testutil.SeedClient(t, dbc.Ctx, tx, u.ID, "acme")
	beta := testutil.SeedClient(t, dbc.Ctx, tx, u.ID, "beta")

	global := testutil.SeedPrompt(t, dbc.Ctx, tx, u.ID, nil, "Summary", types.PromptTypeTemplate, "global summary")
	scoped := testutil.SeedPrompt(t, dbc.Ctx, tx, u.ID, testutil.PtrUUID(acme.ID), "Summary", types.PromptTypeTemplate, "acme summary")
	testutil.SeedPrompt(t, dbc.Ctx, tx, u.ID, nil, "Brief", types.PromptTypeConversion, "be brief")
	brief := testutil.SeedPrompt(t, dbc.Ctx, tx, u.ID, nil, "Brief", types.PromptTypeTemplate, "brief layout")

	got, err := repo.FindVisibleByName(dbc, u.ID, testutil.PtrUUID(acme.ID), "Summary")
	if err != nil {
		t.Fatalf("FindVisibleByName: %v", err)
	}
	if len(got) != 2 || got[0].ID != scoped.ID {
		t.Fatalf("FindVisibleByName: expected client prompt first, got %+v", got)
	}

	got, err = repo.FindVisibleByName(dbc, u.ID, testutil.PtrUUID(beta.ID), "Summary")
	if err != nil {
		t.Fatalf("FindVisibleByName (beta): %v", err)
	}
	if len(got) != 1 || got[0].ID != global.ID {
		t.Fatalf("FindVisibleByName (beta): expected global prompt, got %+v", got)
	}

	got, err = repo.FindVisibleByName(dbc, u.ID, nil, "Brief")
	if err != nil {
		t.Fatalf("FindVisibleByName (brief): %v", err)
	}
	if len(got) != 2 || got[0].ID != brief.ID {
		t.Fatalf("FindVisibleByName (brief): expected template prompt first, got %+v", got)
	}

	inScope, err := repo.GetInScope(dbc, u.ID, nil, "Summary", types.PromptTypeTemplate)
	if err != nil || inScope == nil || inScope.ID != global.ID {
		t.Fatalf("GetInScope (global): got=%+v err=%v", inScope, err)
	}
	inScope, err = repo.GetInScope(dbc, u.ID, testutil.PtrUUID(beta.ID), "Summary", types.PromptTypeTemplate)
	if err != nil || inScope != nil {
		t.Fatalf("GetInScope (beta): expected nil, got=%+v err=%v", inScope, err)
	}

	list, err := repo.ListVisible(dbc, u.ID, testutil.PtrUUID(acme.ID), types.PromptTypeTemplate)
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("ListVisible: expected 3 prompts, got %d", len(list))
	}
}

func TestPromptRepoUpdate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewPromptRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, dbc.Ctx, tx, "promptrepo-update@example.com")
	p := testutil.SeedPrompt(t, dbc.Ctx, tx, u.ID, nil, "Summary", types.PromptTypeTemplate, "v1")

	p.Name = "Overview"
	p.Content = "v2"
	if err := repo.Update(dbc, p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	rows, err := repo.GetByIDs(dbc, u.ID, []uuid.UUID{p.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows[0].Content != "v2" || rows[0].Name != "Overview" {
		t.Fatalf("Update: unexpected row: %+v", rows[0])
	}
	if err := repo.Update(dbc, &types.Prompt{ID: uuid.New(), Name: "x", Type: types.PromptTypeTemplate}); err == nil {
		t.Fatalf("Update (missing): expected error")
	}
}
