package minio

import (
	"context"
	"fmt"
	"time"

	"plaza-go/internal/config"
	"plaza-go/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

var client *minio.Client

// CommentImageBucket 评论图片附件桶
const CommentImageBucket = "comment-images"

// Init 初始化 MinIO 客户端并确保所有 Bucket 存在
func Init(cfg *config.MinIOConfig) error {
	var err error
	client, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, bucket := range cfg.Buckets {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
			logger.Info("MinIO bucket created", zap.String("bucket", bucket))
		}
	}

	// comment-images 需要公开读，评论里的图片由前端直接访问
	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, CommentImageBucket)
	if err := client.SetBucketPolicy(ctx, CommentImageBucket, policy); err != nil {
		return fmt.Errorf("failed to set public policy for %s: %w", CommentImageBucket, err)
	}

	logger.Info("MinIO connected",
		zap.String("endpoint", cfg.Endpoint),
		zap.Strings("buckets", cfg.Buckets),
	)
	return nil
}

// Get 获取 MinIO 客户端实例
func Get() *minio.Client {
	return client
}

// PresignedPutURL 生成直传上传地址
// 上传本身由客户端直连对象存储完成，服务端只签发地址。
func PresignedPutURL(ctx context.Context, bucket, object string, expiry time.Duration) (string, error) {
	if client == nil {
		return "", fmt.Errorf("minio client not initialized")
	}
	u, err := client.PresignedPutObject(ctx, bucket, object, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign put url: %w", err)
	}
	return u.String(), nil
}

// PublicURL 公开读桶中对象的访问地址
func PublicURL(cfg *config.MinIOConfig, bucket, object string) string {
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, cfg.Endpoint, bucket, object)
}
