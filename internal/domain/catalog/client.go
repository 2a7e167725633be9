package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a customer the operator prepares documents for. ClientKey is the
// operator-chosen identifier sent by forms as "client_id".
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_client_user_key" json:"user_id"`
	ClientKey string    `gorm:"not null;column:client_key;uniqueIndex:idx_client_user_key" json:"client_id"`
	Name      string    `gorm:"not null;column:name" json:"name"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Client) TableName() string { return "client" }

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
