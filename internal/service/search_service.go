package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"plaza-go/internal/api/dto"
	infraES "plaza-go/internal/infra/elasticsearch"
	"plaza-go/internal/model"
	"plaza-go/internal/repository"
	"plaza-go/pkg/logger"

	"go.uber.org/zap"
)

const searchResultLimit = 50

type SearchService struct {
	commentRepo *repository.CommentRepository
}

func NewSearchService(commentRepo *repository.CommentRepository) *SearchService {
	return &SearchService{commentRepo: commentRepo}
}

// commentDoc 写入 ES 的评论文档
type commentDoc struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	AuthorID  int64     `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchComments 帖内评论检索（ES 优先，失败则降级到 DB）
func (s *SearchService) SearchComments(ctx context.Context, req *dto.CommentSearchRequest) ([]model.Comment, error) {
	comments, err := s.searchFromES(ctx, req)
	if err != nil {
		logger.Warn("ES search failed, fallback to DB", zap.Error(err))
		return s.commentRepo.SearchByPost(ctx, req.PostID, req.Query, searchResultLimit)
	}
	return comments, nil
}

func (s *SearchService) searchFromES(ctx context.Context, req *dto.CommentSearchRequest) ([]model.Comment, error) {
	query := map[string]interface{}{
		"size": searchResultLimit,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{"match": map[string]interface{}{"text": req.Query}},
				},
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"post_id": req.PostID}},
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"_score": "desc"},
			map[string]interface{}{"created_at": "desc"},
		},
	}
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	esCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := infraES.Search(esCtx, infraES.CommentIndexName(), bytes.NewReader(queryJSON))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("ES search error: %s", resp.String())
	}

	var esResp struct {
		Hits struct {
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	comments, err := s.commentRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// 按 ES 命中顺序返回
	byID := make(map[int64]*model.Comment, len(comments))
	for i := range comments {
		byID[comments[i].ID] = &comments[i]
	}
	ordered := make([]model.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, *c)
		}
	}
	return ordered, nil
}

// IndexComment 把评论同步进 ES（尽力而为，失败只记日志）
func (s *SearchService) IndexComment(c *model.Comment) error {
	doc := commentDoc{
		ID:        c.ID,
		PostID:    c.PostID,
		ParentID:  c.ParentID,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := infraES.Index(ctx, infraES.CommentIndexName(), strconv.FormatInt(c.ID, 10), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("ES index error: %s", resp.String())
	}
	return nil
}

// RemoveComment 从 ES 移除评论
func (s *SearchService) RemoveComment(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := infraES.Delete(ctx, infraES.CommentIndexName(), strconv.FormatInt(id, 10))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() && resp.StatusCode != 404 {
		return fmt.Errorf("ES delete error: %s", resp.String())
	}
	return nil
}
