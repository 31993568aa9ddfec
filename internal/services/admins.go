package services

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
)

// AdminDirectory 判断用户是否为管理员。
type AdminDirectory interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// AdminService 管理持久化的管理员集合，集合永不为空。
type AdminService struct {
	repo AdminRepo
	log  *log.Helper
}

// NewAdminService 构造管理员服务。
func NewAdminService(repo AdminRepo, logger log.Logger) *AdminService {
	return &AdminService{
		repo: repo,
		log:  log.NewHelper(logger),
	}
}

var _ AdminDirectory = (*AdminService)(nil)

// IsAdmin 报告 userID 是否在管理员集合中。
func (s *AdminService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	ok, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return false, storageError("check admin", err)
	}
	return ok, nil
}

// List 返回全部管理员 ID。
func (s *AdminService) List(ctx context.Context) ([]int64, error) {
	ids, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageError("list admins", err)
	}
	return ids, nil
}

// Add 添加管理员，返回是否为新增。
func (s *AdminService) Add(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, ErrInvalidField
	}
	created, err := s.repo.Add(ctx, userID)
	if err != nil {
		return false, storageError("add admin", err)
	}
	if created {
		s.log.WithContext(ctx).Infof("admin added: user_id=%d", userID)
	}
	return created, nil
}

// Remove 删除管理员。
//
// 错误处理：
//   - 不在集合中 → ErrAdminNotFound
//   - 仅剩最后一人 → ErrLastAdmin
func (s *AdminService) Remove(ctx context.Context, userID int64) error {
	ok, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return storageError("check admin", err)
	}
	if !ok {
		return ErrAdminNotFound
	}
	removed, err := s.repo.RemoveUnlessLast(ctx, userID)
	if err != nil {
		return storageError("remove admin", err)
	}
	if !removed {
		return ErrLastAdmin
	}
	s.log.WithContext(ctx).Infof("admin removed: user_id=%d", userID)
	return nil
}

// Seed 确保初始管理员存在。
func (s *AdminService) Seed(ctx context.Context, ids []int64) error {
	if err := s.repo.Seed(ctx, ids); err != nil {
		return storageError("seed admins", err)
	}
	return nil
}
