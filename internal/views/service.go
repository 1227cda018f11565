package views

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"talent-radar/internal/model"
	"talent-radar/internal/query"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Store 定义持久化接口。
type Store interface {
	CreateSavedView(ctx context.Context, view *model.SavedView) error
	ListSavedViews(ctx context.Context) ([]model.SavedView, error)
}

// Service 负责保存视图的创建与读取。
// 仓储由外部注入，包内不持有任何进程级状态。
type Service struct {
	store Store
	now   func() time.Time
	newID func() string
}

// NewService 创建保存视图服务。
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Save 以给定名称保存一份筛选快照，名称必填。
func (s *Service) Save(ctx context.Context, name string, filter query.Filter) (model.SavedView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.SavedView{}, fmt.Errorf("%w: view name required", model.ErrValidation)
	}

	snapshot, err := filterSnapshot(filter)
	if err != nil {
		return model.SavedView{}, err
	}

	view := model.SavedView{
		ID:        s.newID(),
		Name:      name,
		Filter:    snapshot,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateSavedView(ctx, &view); err != nil {
		return model.SavedView{}, err
	}
	return view, nil
}

// List 返回当前工作区的全部保存视图。
func (s *Service) List(ctx context.Context) ([]model.SavedView, error) {
	return s.store.ListSavedViews(ctx)
}

// filterSnapshot 将筛选对象转为 JSON 快照存储，核心层不解释其字段。
func filterSnapshot(filter query.Filter) (datatypes.JSONMap, error) {
	data, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("marshal filter: %w", err)
	}
	snapshot := datatypes.JSONMap{}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("snapshot filter: %w", err)
	}
	return snapshot, nil
}
