package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"talent-radar/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Store 封装 SQLite 数据库访问，负责候选人、面试反馈、保存视图与谈判记录的读写。
type Store struct {
	db *gorm.DB
}

// CandidateQueryOptions 提供候选人查询条件。
type CandidateQueryOptions struct {
	Limit  int
	Offset int
	Stage  model.Stage
}

// NewStore 创建 Store 并自动迁移数据表。
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&model.Candidate{}, &model.InterviewFeedback{}, &model.SavedView{}, &model.Negotiation{}); err != nil {
		return nil, fmt.Errorf("auto migrate models: %w", err)
	}

	return &Store{db: db}, nil
}

// Close 关闭底层数据库连接。
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// ListCandidates 返回按创建时间升序的候选人列表。
func (s *Store) ListCandidates(ctx context.Context, opts CandidateQueryOptions) ([]model.Candidate, error) {
	var candidates []model.Candidate
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	query := s.db.WithContext(ctx).Model(&model.Candidate{}).Order("created_at ASC, id ASC")
	if opts.Stage != "" {
		query = query.Where("stage = ?", opts.Stage)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	if err := query.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return candidates, nil
}

// CountCandidates 返回满足条件的候选人数量。
func (s *Store) CountCandidates(ctx context.Context, opts CandidateQueryOptions) (int64, error) {
	var total int64
	query := s.db.WithContext(ctx).Model(&model.Candidate{})
	if opts.Stage != "" {
		query = query.Where("stage = ?", opts.Stage)
	}
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count candidates: %w", err)
	}
	return total, nil
}

// GetCandidate 根据 ID 获取候选人。
func (s *Store) GetCandidate(ctx context.Context, id string) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := s.db.WithContext(ctx).First(&candidate, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return &candidate, nil
}

// CreateCandidate 新增候选人。
func (s *Store) CreateCandidate(ctx context.Context, candidate *model.Candidate) error {
	if err := s.db.WithContext(ctx).Create(candidate).Error; err != nil {
		return fmt.Errorf("create candidate: %w", err)
	}
	return nil
}

// UpdateCandidate 整体覆盖候选人记录，不存在时返回 ErrNotFound。
func (s *Store) UpdateCandidate(ctx context.Context, candidate *model.Candidate) error {
	tx := s.db.WithContext(ctx).Model(&model.Candidate{}).Where("id = ?", candidate.ID).Select("*").Omit("created_at").Updates(candidate)
	if tx.Error != nil {
		return fmt.Errorf("update candidate: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// CreateFeedback 追加一条面试反馈，提交后不提供更新或删除。
func (s *Store) CreateFeedback(ctx context.Context, fb *model.InterviewFeedback) error {
	if err := s.db.WithContext(ctx).Create(fb).Error; err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// ListFeedback 返回某候选人按提交时间升序的全部反馈。
func (s *Store) ListFeedback(ctx context.Context, candidateID string) ([]model.InterviewFeedback, error) {
	var items []model.InterviewFeedback
	if err := s.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return items, nil
}

// CreateSavedView 新增保存视图。
func (s *Store) CreateSavedView(ctx context.Context, view *model.SavedView) error {
	if err := s.db.WithContext(ctx).Create(view).Error; err != nil {
		return fmt.Errorf("create saved view: %w", err)
	}
	return nil
}

// ListSavedViews 返回全部保存视图，按创建时间升序。
func (s *Store) ListSavedViews(ctx context.Context) ([]model.SavedView, error) {
	var views []model.SavedView
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&views).Error; err != nil {
		return nil, fmt.Errorf("list saved views: %w", err)
	}
	return views, nil
}

// CreateNegotiation 新增谈判记录。
func (s *Store) CreateNegotiation(ctx context.Context, n *model.Negotiation) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create negotiation: %w", err)
	}
	return nil
}

// GetNegotiation 根据 ID 获取谈判记录。
func (s *Store) GetNegotiation(ctx context.Context, id string) (*model.Negotiation, error) {
	var n model.Negotiation
	if err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get negotiation: %w", err)
	}
	return &n, nil
}

// ListNegotiations 返回某候选人的谈判记录，按创建时间升序。
func (s *Store) ListNegotiations(ctx context.Context, candidateID string) ([]model.Negotiation, error) {
	var items []model.Negotiation
	query := s.db.WithContext(ctx).Model(&model.Negotiation{}).Order("created_at ASC")
	if candidateID != "" {
		query = query.Where("candidate_id = ?", candidateID)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list negotiations: %w", err)
	}
	return items, nil
}

// UpdateNegotiation 整体覆盖谈判记录，不存在时返回 ErrNotFound。
func (s *Store) UpdateNegotiation(ctx context.Context, n *model.Negotiation) error {
	tx := s.db.WithContext(ctx).Model(&model.Negotiation{}).Where("id = ?", n.ID).Select("*").Omit("created_at").Updates(n)
	if tx.Error != nil {
		return fmt.Errorf("update negotiation: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
