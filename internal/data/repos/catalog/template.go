package catalog

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
)

type TemplateRepo interface {
	Create(dbc dbctx.Context, templates []*types.Template) ([]*types.Template, error)
	GetByIDs(dbc dbctx.Context, userID uuid.UUID, templateIDs []uuid.UUID) ([]*types.Template, error)
	FindVisibleByName(dbc dbctx.Context, userID uuid.UUID, clientID *uuid.UUID, name string) ([]*types.Template, error)
	ExistsInScope(dbc dbctx.Context, userID uuid.UUID, clientID *uuid.UUID, name string) (bool, error)
	UpdateFile(dbc dbctx.Context, templateID uuid.UUID, fileName string, data []byte) error
	SetTemplatePrompt(dbc dbctx.Context, templateID, promptID uuid.UUID, sections datatypes.JSON) error
	UpdateSectionsByPrompt(dbc dbctx.Context, userID, promptID uuid.UUID, sections datatypes.JSON) (int64, error)
	SetConversion(dbc dbctx.Context, templateID, conversionPromptID uuid.UUID) error
	Delete(dbc dbctx.Context, userID, templateID uuid.UUID) error
	ListSummaries(dbc dbctx.Context, userID uuid.UUID, clientID *uuid.UUID) ([]*types.TemplateSummary, error)
	GetSummary(dbc dbctx.Context, userID, templateID uuid.UUID) (*types.TemplateSummary, error)
}

type templateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTemplateRepo(db *gorm.DB, baseLog *logger.Logger) TemplateRepo {
	return &templateRepo{db: db, log: baseLog.With("repo", "TemplateRepo")}
}

func (r *templateRepo) tx(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *templateRepo) Create(dbc dbctx.Context, templates []*types.Template) ([]*types.Template, error) {
	if len(templates) == 0 {
		return []*types.Template{}, nil
	}
	if err := r.tx(dbc).Omit("Client", "TemplatePrompt").Create(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepo) GetByIDs(dbc dbctx.Context, userID uuid.UUID, templateIDs []uuid.UUID) ([]*types.Template, error) {
	var results []*types.Template
	if len(templateIDs) == 0 {
		return results, nil
	}
	if err := r.tx(dbc).
		Where("user_id = ? AND id IN ?", userID, templateIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *templateRepo) FindVisibleByName(dbc dbctx.Context, userID uuid.UUID, clientID *uuid.UUID, name string) ([]*types.Template, error) {
	var results []*types.Template
	q := r.tx(dbc).Where("user_id = ? AND template_name = ?", userID, name)
	q = visibleTo(q, "client_id", clientID)
	if err := q.
		Order(clientFirst("client_id")).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *templateRepo) ExistsInScope(dbc dbctx.Context, userID uuid.UUID, clientID *uuid.UUID, name string) (bool, error) {
	var count int64
	q := r.tx(dbc).Model(&types.Template{}).Where("user_id = ? AND template_name = ?", userID, name)
	q = exactScope(q, "client_id", clientID)
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *templateRepo) UpdateFile(dbc dbctx.Context, templateID uuid.UUID, fileName string, data []byte) error {
	res := r.tx(dbc).
		Model(&types.Template{}).
		Where("id = ?", templateID).
		Updates(map[string]interface{}{
			"template_file":      data,
			"template_file_name": fileName,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetTemplatePrompt points the template at a new template prompt together
// with the sections parsed from it.
func (r *templateRepo) SetTemplatePrompt(dbc dbctx.Context, templateID, promptID uuid.UUID, sections datatypes.JSON) error {
	res := r.tx(dbc).
		Model(&types.Template{}).
		Where("id = ?", templateID).
		Updates(map[string]interface{}{
			"template_prompt_id": promptID,
			"sections":           sections,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateSectionsByPrompt rewrites the cached sections of every template built
// on promptID and reports how many rows changed.
func (r *templateRepo) UpdateSectionsByPrompt(dbc dbctx.Context, userID, promptID uuid.UUID, sections datatypes.JSON) (int64, error) {
	res := r.tx(dbc).
		Model(&types.Template{}).
		Where("user_id = ? AND template_prompt_id = ?", userID, promptID).
		Update("sections", sections)
	return res.RowsAffected, res.Error
}

// SetConversion replaces the template's conversion prompt association.
func (r *templateRepo) SetConversion(dbc dbctx.Context, templateID, conversionPromptID uuid.UUID) error {
	t := r.tx(dbc)
	if err := t.Where("template_id = ?", templateID).Delete(&types.TemplateConversion{}).Error; err != nil {
		return err
	}
	return t.Create(&types.TemplateConversion{
		TemplateID:         templateID,
		ConversionPromptID: conversionPromptID,
	}).Error
}

func (r *templateRepo) Delete(dbc dbctx.Context, userID, templateID uuid.UUID) error {
	t := r.tx(dbc)
	if err := t.Where("template_id = ?", templateID).Delete(&types.TemplateConversion{}).Error; err != nil {
		return err
	}
	res := t.Where("user_id = ? AND id = ?", userID, templateID).Delete(&types.Template{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type summaryRow struct {
	ID                      uuid.UUID
	Name                    string
	ClientKey               *string
	TemplatePromptID        *uuid.UUID
	TemplatePromptName      *string
	TemplatePromptContent   *string
	ConversionPromptID      *uuid.UUID
	ConversionPromptName    *string
	ConversionPromptContent *string
	HasFile                 bool
	Sections                *string
}

func (r *templateRepo) summaryQuery(dbc dbctx.Context, userID uuid.UUID) *gorm.DB {
	return r.tx(dbc).
		Table("template AS t").
		Select(`t.id AS id,
			t.template_name AS name,
			c.client_key AS client_key,
			p.id AS template_prompt_id,
			p.prompt_name AS template_prompt_name,
			p.content AS template_prompt_content,
			cp.id AS conversion_prompt_id,
			cp.prompt_name AS conversion_prompt_name,
			cp.content AS conversion_prompt_content,
			COALESCE(LENGTH(t.template_file), 0) > 0 AS has_file,
			t.sections AS sections`).
		Joins("LEFT JOIN client c ON c.id = t.client_id").
		Joins("LEFT JOIN prompt p ON p.id = t.template_prompt_id").
		Joins("LEFT JOIN template_conversion tc ON tc.template_id = t.id").
		Joins("LEFT JOIN prompt cp ON cp.id = tc.conversion_prompt_id").
		Where("t.user_id = ?", userID)
}

func (r *templateRepo) ListSummaries(dbc dbctx.Context, userID uuid.UUID, clientID *uuid.UUID) ([]*types.TemplateSummary, error) {
	var rows []summaryRow
	q := visibleTo(r.summaryQuery(dbc, userID), "t.client_id", clientID)
	if err := q.
		Order("t.template_name ASC").
		Order(clientFirst("t.client_id")).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return r.toSummaries(rows), nil
}

func (r *templateRepo) GetSummary(dbc dbctx.Context, userID, templateID uuid.UUID) (*types.TemplateSummary, error) {
	var rows []summaryRow
	if err := r.summaryQuery(dbc, userID).
		Where("t.id = ?", templateID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := r.toSummaries(rows)
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// toSummaries keeps the first row per template; a template joined to more
// than one conversion prompt surfaces only one of them.
func (r *templateRepo) toSummaries(rows []summaryRow) []*types.TemplateSummary {
	out := make([]*types.TemplateSummary, 0, len(rows))
	seen := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		if seen[row.ID] {
			continue
		}
		seen[row.ID] = true
		s := &types.TemplateSummary{
			ID:                      row.ID,
			Name:                    row.Name,
			ClientKey:               deref(row.ClientKey),
			TemplatePromptID:        row.TemplatePromptID,
			TemplatePromptName:      deref(row.TemplatePromptName),
			TemplatePromptContent:   deref(row.TemplatePromptContent),
			ConversionPromptID:      row.ConversionPromptID,
			ConversionPromptName:    deref(row.ConversionPromptName),
			ConversionPromptContent: deref(row.ConversionPromptContent),
			HasFile:                 row.HasFile,
		}
		if row.Sections != nil && *row.Sections != "" {
			if err := json.Unmarshal([]byte(*row.Sections), &s.Sections); err != nil {
				r.log.Warn("bad sections json", "template_id", row.ID, "error", err)
			}
		}
		out = append(out, s)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
