package model

import (
	"time"

	"gorm.io/datatypes"
)

// SavedView 表示一份命名的筛选快照，按需创建，不自动过期。
// Filter 为任意筛选对象的 JSON 快照，核心层不解释其内容。
type SavedView struct {
	ID        string            `gorm:"primaryKey" json:"id"`
	Name      string            `json:"name"`
	Filter    datatypes.JSONMap `json:"filter"`
	CreatedAt time.Time         `json:"created_at"`
}
