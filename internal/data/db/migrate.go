package db

import (
	"fmt"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity + auth
		&types.User{},
		&types.UserToken{},

		// Catalog
		&types.Client{},
		&types.Prompt{},
		&types.Template{},
		&types.TemplateConversion{},
	)
}

// EnsureCatalogIndexes adds the partial unique indexes that keep prompt and
// template names unique per scope. Global rows (client_id IS NULL) need their
// own index because NULLs never collide in a plain unique index.
func EnsureCatalogIndexes(db *gorm.DB) error {
	stmts := []struct{ name, sql string }{
		{"idx_prompt_client_name_type", `
			CREATE UNIQUE INDEX IF NOT EXISTS idx_prompt_client_name_type
			ON prompt (user_id, client_id, prompt_name, prompt_type)
			WHERE client_id IS NOT NULL;`},
		{"idx_prompt_global_name_type", `
			CREATE UNIQUE INDEX IF NOT EXISTS idx_prompt_global_name_type
			ON prompt (user_id, prompt_name, prompt_type)
			WHERE client_id IS NULL;`},
		{"idx_template_client_name", `
			CREATE UNIQUE INDEX IF NOT EXISTS idx_template_client_name
			ON template (user_id, client_id, template_name)
			WHERE client_id IS NOT NULL;`},
		{"idx_template_global_name", `
			CREATE UNIQUE INDEX IF NOT EXISTS idx_template_global_name
			ON template (user_id, template_name)
			WHERE client_id IS NULL;`},
	}
	for _, st := range stmts {
		if err := db.Exec(st.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", st.name, err)
		}
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureCatalogIndexes(s.db); err != nil {
		s.log.Error("Catalog index migration failed", "error", err)
		return err
	}
	return nil
}
