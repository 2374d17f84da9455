package service

import (
	"context"
	"errors"

	"plaza-go/internal/api/dto"
	"plaza-go/internal/config"
	"plaza-go/internal/model"
	"plaza-go/internal/repository"
	"plaza-go/internal/thread"
	"plaza-go/pkg/utils"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrUsernameExists    = errors.New("用户名已存在")
	ErrInvalidCredential = errors.New("用户名或密码错误")
	ErrUserDeleted       = errors.New("该用户已被删除")
)

type AuthService struct {
	userRepo *repository.UserRepository
}

func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register 用户注册
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserInfo, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserName: req.Username,
		Password: hashedPassword,
		Handle:   req.Handle,
		Avatar:   req.Avatar,
		UserRole: "user",
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// Login 用户登录，返回 token 数据
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenData, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	if user.IsDelete != 0 {
		return nil, ErrUserDeleted
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredential
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	expireSeconds := int(config.GetJWT().ExpireHours) * 3600

	return &dto.TokenData{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: expireSeconds,
		User:      *toUserInfo(user),
	}, nil
}

// GetCurrentUser 根据用户 ID 获取用户信息
func (s *AuthService) GetCurrentUser(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.IsDelete != 0 {
		return nil, ErrUserDeleted
	}

	return toUserInfo(user), nil
}

// IdentityOf 把用户 ID 解析成线程核心消费的会话身份
// 用户不存在或已删除时返回匿名身份。
func (s *AuthService) IdentityOf(ctx context.Context, userID int64) thread.Identity {
	if userID <= 0 {
		return thread.Anonymous
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return thread.Anonymous
	}

	handle := user.Handle
	if handle == nil {
		handle = &user.UserName
	}
	return thread.Identity{
		ID:     user.ID,
		Handle: handle,
		Avatar: user.Avatar,
	}
}

func toUserInfo(user *model.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:       user.ID,
		Username: user.UserName,
		Handle:   user.Handle,
		Avatar:   user.Avatar,
		UserRole: user.UserRole,
	}
}
