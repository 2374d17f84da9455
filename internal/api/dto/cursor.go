package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"plaza-go/internal/thread"
)

// ErrBadCursor 游标无法解析
var ErrBadCursor = errors.New("无效的分页游标")

// wireCursor 游标的传输形态；对调用方是不透明字符串
type wireCursor struct {
	CreatedAt time.Time `json:"t"`
	ID        int64     `json:"i"`
}

// EncodeCursor 编码为 URL 安全的不透明字符串
func EncodeCursor(c thread.Cursor) string {
	payload, _ := json.Marshal(wireCursor{CreatedAt: c.CreatedAt, ID: c.ID})
	return base64.RawURLEncoding.EncodeToString(payload)
}

// DecodeCursor 解析游标，空串表示首页
func DecodeCursor(s string) (*thread.Cursor, error) {
	if s == "" {
		return nil, nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrBadCursor
	}
	var wc wireCursor
	if err := json.Unmarshal(payload, &wc); err != nil {
		return nil, ErrBadCursor
	}
	if wc.ID <= 0 || wc.CreatedAt.IsZero() {
		return nil, ErrBadCursor
	}
	return &thread.Cursor{CreatedAt: wc.CreatedAt, ID: wc.ID}, nil
}
