package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/promptdesk-backend/internal/data/repos/testutil"
	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
)

func TestClientRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewClientRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, dbc.Ctx, tx, "clientrepo@example.com")
	other := testutil.SeedUser(t, dbc.Ctx, tx, "clientrepo-other@example.com")

	created, err := repo.Create(dbc, []*types.Client{
		{ID: uuid.New(), UserID: u.ID, ClientKey: "acme", Name: "Acme"},
		{ID: uuid.New(), UserID: u.ID, ClientKey: "beta", Name: "Beta"},
		{ID: uuid.New(), UserID: other.ID, ClientKey: "acme", Name: "Other Acme"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("Create: expected 3 clients, got %d", len(created))
	}

	got, err := repo.GetByKeys(dbc, u.ID, []string{"acme"})
	if err != nil {
		t.Fatalf("GetByKeys: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Acme" {
		t.Fatalf("GetByKeys: unexpected result: %+v", got)
	}

	list, err := repo.ListByUser(dbc, u.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 || list[0].ClientKey != "acme" || list[1].ClientKey != "beta" {
		t.Fatalf("ListByUser: unexpected result: %+v", list)
	}

	exists, err := repo.KeyExists(dbc, u.ID, "beta")
	if err != nil || !exists {
		t.Fatalf("KeyExists: exists=%v err=%v", exists, err)
	}
	exists, err = repo.KeyExists(dbc, other.ID, "beta")
	if err != nil || exists {
		t.Fatalf("KeyExists (other user): exists=%v err=%v", exists, err)
	}
}
