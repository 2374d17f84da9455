package service

import (
	"context"
	"errors"
	"fmt"

	"plaza-go/internal/api/dto"
	"plaza-go/internal/model"
	"plaza-go/internal/notify"
	"plaza-go/internal/repository"
	"plaza-go/internal/thread"
	"plaza-go/pkg/logger"

	"go.uber.org/zap"
)

var (
	ErrPostNotFound     = errors.New("帖子不存在")
	ErrPostNoPermission = errors.New("没有权限操作该帖子")
	ErrInvalidPostKind  = errors.New("无效的帖子类型")
)

type PostService struct {
	postRepo *repository.PostRepository
	notifier notify.Notifier
}

func NewPostService(postRepo *repository.PostRepository, notifier notify.Notifier) *PostService {
	return &PostService{postRepo: postRepo, notifier: notifier}
}

// Create 发帖
func (s *PostService) Create(ctx context.Context, authorID int64, req *dto.PostCreateRequest) (*model.Post, error) {
	kind := req.Kind
	if kind == "" {
		kind = model.PostKindDiscussion
	}
	switch kind {
	case model.PostKindEvent, model.PostKindDiscussion, model.PostKindListing:
	default:
		return nil, ErrInvalidPostKind
	}

	post := &model.Post{
		AuthorID:        authorID,
		Title:           req.Title,
		Body:            req.Body,
		Kind:            kind,
		CommentsEnabled: true,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// Get 查看帖子
func (s *PostService) Get(ctx context.Context, id int64) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, thread.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// List 帖子列表
func (s *PostService) List(ctx context.Context, page, pageSize int, kind *string) ([]model.Post, int64, error) {
	skip := (page - 1) * pageSize
	return s.postRepo.List(ctx, skip, pageSize, kind)
}

// SetCommentsEnabled 开关评论（仅帖子作者），变更推给元数据订阅者
func (s *PostService) SetCommentsEnabled(ctx context.Context, postID, actorID int64, enabled bool) error {
	if err := s.postRepo.SetCommentsEnabled(ctx, postID, actorID, enabled); err != nil {
		if errors.Is(err, thread.ErrNotFound) {
			// 帖子存在但不属于操作者时也会走到这里，统一按权限处理
			if _, getErr := s.postRepo.GetByID(ctx, postID); getErr == nil {
				return ErrPostNoPermission
			}
			return ErrPostNotFound
		}
		return err
	}

	ev := notify.Event{Kind: notify.EventMeta, PostID: postID}
	if err := s.notifier.Publish(ctx, notify.MetaChannel(postID), ev); err != nil {
		logger.Warn("Failed to publish meta change",
			zap.Int64("post_id", postID),
			zap.Error(err),
		)
	}
	return nil
}
