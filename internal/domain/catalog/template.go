package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Template is a target document layout: an optional .docx file plus the
// template prompt that explains its sections to the converter.
type Template struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index:idx_template_scope" json:"user_id"`
	ClientID         *uuid.UUID     `gorm:"type:uuid;index:idx_template_scope" json:"client_ref,omitempty"`
	Client           *Client        `gorm:"constraint:OnDelete:SET NULL;foreignKey:ClientID;references:ID" json:"-"`
	Name             string         `gorm:"not null;column:template_name;index:idx_template_scope" json:"template_name"`
	TemplatePromptID *uuid.UUID     `gorm:"type:uuid;column:template_prompt_id" json:"template_prompt_id,omitempty"`
	TemplatePrompt   *Prompt        `gorm:"constraint:OnDelete:RESTRICT;foreignKey:TemplatePromptID;references:ID" json:"-"`
	Sections         datatypes.JSON `gorm:"column:sections" json:"sections"`
	File             []byte         `gorm:"column:template_file" json:"-"`
	FileName         string         `gorm:"column:template_file_name" json:"template_file_name,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Template) TableName() string { return "template" }

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if len(t.Sections) == 0 {
		t.Sections = datatypes.JSON("[]")
	}
	return nil
}

// TemplateConversion links a template with the conversion prompt applied by
// default when content is converted into it.
type TemplateConversion struct {
	TemplateID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"template_id"`
	ConversionPromptID uuid.UUID `gorm:"type:uuid;primaryKey" json:"conversion_prompt_id"`
	CreatedAt          time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (TemplateConversion) TableName() string { return "template_conversion" }

// TemplateSummary is the read model behind template selectors: everything a
// selector option embeds so prompts can be shown without another request.
type TemplateSummary struct {
	ID                      uuid.UUID  `json:"id"`
	Name                    string     `json:"template_name"`
	ClientKey               string     `json:"client_id,omitempty"`
	TemplatePromptID        *uuid.UUID `json:"template_prompt_id,omitempty"`
	TemplatePromptName      string     `json:"template_prompt_name,omitempty"`
	TemplatePromptContent   string     `json:"template_prompt_content,omitempty"`
	ConversionPromptID      *uuid.UUID `json:"conversion_prompt_id,omitempty"`
	ConversionPromptName    string     `json:"conversion_prompt_name,omitempty"`
	ConversionPromptContent string     `json:"conversion_prompt_content,omitempty"`
	HasFile                 bool       `json:"has_file"`
	Sections                []Section  `json:"sections,omitempty"`
}

// Section is one "**Section: Name** - **Purpose**: This section represents key
// content" declaration found in a template prompt.
type Section struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}
