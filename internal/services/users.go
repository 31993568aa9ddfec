package services

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
)

// UserService 登记与会用户并提供群发名单。
type UserService struct {
	repo UserRepo
	log  *log.Helper
}

// NewUserService 构造用户服务。
func NewUserService(repo UserRepo, logger log.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log.NewHelper(logger),
	}
}

// Register 在用户首次出现时写入，已存在则保持不变。
func (s *UserService) Register(ctx context.Context, userID int64) error {
	created, err := s.repo.Add(ctx, userID)
	if err != nil {
		return storageError("register user", err)
	}
	if created {
		s.log.WithContext(ctx).Debugf("user registered: user_id=%d", userID)
	}
	return nil
}

// Recipients 返回全部用户 ID，供群发使用。
func (s *UserService) Recipients(ctx context.Context) ([]int64, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, storageError("list users", err)
	}
	return ids, nil
}
