package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/promptdesk-backend/internal/data/repos/testutil"
	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
)

func TestTemplateRepoSummaries(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewTemplateRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, dbc.Ctx, tx, "templaterepo@example.com")
	acme := testutil.SeedClient(t, dbc.Ctx, tx, u.ID, "acme")

	tp := testutil.SeedPrompt(t, dbc.Ctx, tx, u.ID, nil, "Letter", types.PromptTypeTemplate, "**Section: Intro**")
	cp := testutil.SeedPrompt(t, dbc.Ctx, tx, u.ID, nil, "Brief", types.PromptTypeConversion, "be brief")

	created, err := repo.Create(dbc, []*types.Template{
		{
			ID:               uuid.New(),
			UserID:           u.ID,
			ClientID:         testutil.PtrUUID(acme.ID),
			Name:             "Letter",
			TemplatePromptID: testutil.PtrUUID(tp.ID),
			Sections:         datatypes.JSON(`[{"name":"Intro","key":"intro"}]`),
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	letter := created[0]
	bare := testutil.SeedTemplate(t, dbc.Ctx, tx, u.ID, nil, "Bare", nil)

	if err := repo.SetConversion(dbc, letter.ID, cp.ID); err != nil {
		t.Fatalf("SetConversion: %v", err)
	}
	if err := repo.UpdateFile(dbc, letter.ID, "letter.docx", []byte("PK\x03\x04")); err != nil {
		t.Fatalf("UpdateFile: %v", err)
	}

	sums, err := repo.ListSummaries(dbc, u.ID, testutil.PtrUUID(acme.ID))
	if err != nil {
		t.Fatalf("ListSummaries: %v", err)
	}
	if len(sums) != 2 || sums[0].ID != bare.ID || sums[1].ID != letter.ID {
		t.Fatalf("ListSummaries: unexpected result: %+v", sums)
	}
	s := sums[1]
	if s.ClientKey != "acme" || s.TemplatePromptName != "Letter" || s.ConversionPromptContent != "be brief" || !s.HasFile {
		t.Fatalf("ListSummaries: unexpected summary: %+v", s)
	}
	if len(s.Sections) != 1 || s.Sections[0].Key != "intro" {
		t.Fatalf("ListSummaries: unexpected sections: %+v", s.Sections)
	}
	if sums[0].HasFile {
		t.Fatalf("ListSummaries: bare template should have no file")
	}

	global, err := repo.ListSummaries(dbc, u.ID, nil)
	if err != nil {
		t.Fatalf("ListSummaries (global): %v", err)
	}
	if len(global) != 1 || global[0].ID != bare.ID {
		t.Fatalf("ListSummaries (global): unexpected result: %+v", global)
	}

	one, err := repo.GetSummary(dbc, u.ID, letter.ID)
	if err != nil || one == nil || one.ConversionPromptID == nil || *one.ConversionPromptID != cp.ID {
		t.Fatalf("GetSummary: got=%+v err=%v", one, err)
	}
	missing, err := repo.GetSummary(dbc, u.ID, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetSummary (missing): got=%+v err=%v", missing, err)
	}
}

func TestTemplateRepoLookupAndDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewTemplateRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, dbc.Ctx, tx, "templaterepo-lookup@example.com")
	acme := testutil.SeedClient(t, dbc.Ctx, tx, u.ID, "acme")

	global := testutil.SeedTemplate(t, dbc.Ctx, tx, u.ID, nil, "Memo", nil)
	scoped := testutil.SeedTemplate(t, dbc.Ctx, tx, u.ID, testutil.PtrUUID(acme.ID), "Memo", nil)

	got, err := repo.FindVisibleByName(dbc, u.ID, testutil.PtrUUID(acme.ID), "Memo")
	if err != nil {
		t.Fatalf("FindVisibleByName: %v", err)
	}
	if len(got) != 2 || got[0].ID != scoped.ID {
		t.Fatalf("FindVisibleByName: expected client template first, got %+v", got)
	}

	exists, err := repo.ExistsInScope(dbc, u.ID, nil, "Memo")
	if err != nil || !exists {
		t.Fatalf("ExistsInScope: exists=%v err=%v", exists, err)
	}

	if err := repo.Delete(dbc, u.ID, global.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(dbc, u.ID, global.ID); err == nil {
		t.Fatalf("Delete (again): expected error")
	}
	rows, err := repo.GetByIDs(dbc, u.ID, []uuid.UUID{global.ID, scoped.ID})
	if err != nil || len(rows) != 1 || rows[0].ID != scoped.ID {
		t.Fatalf("GetByIDs: rows=%+v err=%v", rows, err)
	}
}

func TestTemplateRepoPromptSections(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewTemplateRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, dbc.Ctx, tx, "templaterepo-sections@example.com")
	first := testutil.SeedPrompt(t, dbc.Ctx, tx, u.ID, nil, "First", types.PromptTypeTemplate, "first")
	second := testutil.SeedPrompt(t, dbc.Ctx, tx, u.ID, nil, "Second", types.PromptTypeTemplate, "second")
	a := testutil.SeedTemplate(t, dbc.Ctx, tx, u.ID, nil, "A", testutil.PtrUUID(first.ID))
	b := testutil.SeedTemplate(t, dbc.Ctx, tx, u.ID, nil, "B", testutil.PtrUUID(second.ID))

	n, err := repo.UpdateSectionsByPrompt(dbc, u.ID, first.ID, datatypes.JSON(`[{"name":"Body","key":"body"}]`))
	if err != nil || n != 1 {
		t.Fatalf("UpdateSectionsByPrompt: n=%d err=%v", n, err)
	}
	sa, err := repo.GetSummary(dbc, u.ID, a.ID)
	if err != nil || sa == nil || len(sa.Sections) != 1 || sa.Sections[0].Key != "body" {
		t.Fatalf("GetSummary(a): got=%+v err=%v", sa, err)
	}
	sb, err := repo.GetSummary(dbc, u.ID, b.ID)
	if err != nil || sb == nil || len(sb.Sections) != 0 {
		t.Fatalf("GetSummary(b): sections should be untouched, got=%+v err=%v", sb, err)
	}

	if err := repo.SetTemplatePrompt(dbc, b.ID, first.ID, datatypes.JSON(`[{"name":"Intro","key":"intro"}]`)); err != nil {
		t.Fatalf("SetTemplatePrompt: %v", err)
	}
	sb, err = repo.GetSummary(dbc, u.ID, b.ID)
	if err != nil || sb == nil || sb.TemplatePromptID == nil || *sb.TemplatePromptID != first.ID || sb.Sections[0].Key != "intro" {
		t.Fatalf("GetSummary(b) after relink: got=%+v err=%v", sb, err)
	}
	if err := repo.SetTemplatePrompt(dbc, uuid.New(), first.ID, datatypes.JSON(`[]`)); err == nil {
		t.Fatalf("SetTemplatePrompt (missing): expected error")
	}
}
