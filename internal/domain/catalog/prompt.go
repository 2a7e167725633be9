package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromptType string

const (
	// PromptTypeTemplate prompts describe the structure and semantics of a template.
	PromptTypeTemplate PromptType = "template"
	// PromptTypeConversion prompts adjust tone or brevity of converted content.
	PromptTypeConversion PromptType = "conversion"
)

func (t PromptType) Valid() bool {
	return t == PromptTypeTemplate || t == PromptTypeConversion
}

// CustomPromptName is the selector sentinel meaning "no stored prompt; the
// operator types their own".
const CustomPromptName = "Custom"

// Prompt is a named block of instructions. A nil ClientID makes the prompt
// global: visible under every client of the same user.
type Prompt struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_prompt_scope" json:"user_id"`
	ClientID *uuid.UUID `gorm:"type:uuid;index:idx_prompt_scope" json:"client_ref,omitempty"`
	Client   *Client    `gorm:"constraint:OnDelete:SET NULL;foreignKey:ClientID;references:ID" json:"-"`
	Name     string     `gorm:"not null;column:prompt_name;index:idx_prompt_scope" json:"prompt_name"`
	Type     PromptType `gorm:"not null;column:prompt_type;size:32" json:"prompt_type"`
	Content  string     `gorm:"type:text;not null;column:content" json:"content"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Prompt) TableName() string { return "prompt" }

func (p *Prompt) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
