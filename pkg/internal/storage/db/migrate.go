package db

import (
	"fmt"

	"github.com/yeisme/docvault/pkg/internal/model"
	dlog "github.com/yeisme/docvault/pkg/log"
)

// Migrate 执行全部表结构迁移.
func (c *Client) Migrate() error {
	if err := c.AutoMigrate(
		&model.User{},
		&model.Document{},
		&model.Favorite{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	dlog.Logger().Info().Msg("数据库迁移完成")

	return nil
}
