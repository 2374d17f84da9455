package elasticsearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"plaza-go/internal/config"
	"plaza-go/pkg/logger"

	"go.uber.org/zap"
)

// CommentIndexName 评论索引名（可被配置覆盖）
func CommentIndexName() string {
	cfg := config.GetElasticsearch()
	if name := cfg.Index["comments"]; name != "" {
		return name
	}
	return "comments"
}

const commentIndexMapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0
  },
  "mappings": {
    "properties": {
      "id":        { "type": "long" },
      "post_id":   { "type": "long" },
      "parent_id": { "type": "long" },
      "author_id": { "type": "long" },
      "text":      { "type": "text" },
      "created_at": { "type": "date" }
    }
  }
}`

// InitIndexes 确保评论索引存在
func InitIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	index := CommentIndexName()
	exists, err := IndicesExists(ctx, index)
	if err != nil {
		return fmt.Errorf("check index %s: %w", index, err)
	}
	if exists {
		return nil
	}

	resp, err := IndicesCreate(ctx, index, strings.NewReader(commentIndexMapping))
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("create index %s: %s", index, resp.String())
	}

	logger.Info("Elasticsearch index created", zap.String("index", index))
	return nil
}
