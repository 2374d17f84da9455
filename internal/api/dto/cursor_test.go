package dto

import (
	"testing"
	"time"

	"plaza-go/internal/thread"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	c := thread.Cursor{
		CreatedAt: time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
		ID:        42,
	}

	encoded := EncodeCursor(c)
	require.NotEmpty(t, encoded)

	decoded, err := DecodeCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.True(t, decoded.CreatedAt.Equal(c.CreatedAt))
	assert.Equal(t, c.ID, decoded.ID)
}

func TestDecodeCursorEmpty(t *testing.T) {
	decoded, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, decoded, "空串表示首页")
}

func TestDecodeCursorGarbage(t *testing.T) {
	cases := []string{
		"不是base64",
		"!!!!",
		"aGVsbG8",                // 合法 base64 但不是 JSON
		"eyJ0IjoiIiwiaSI6MH0",    // 字段为零值
		"eyJ0IjoxMjMsImkiOjEwfQ", // t 类型不对
	}
	for _, s := range cases {
		_, err := DecodeCursor(s)
		assert.ErrorIs(t, err, ErrBadCursor, "输入: %s", s)
	}
}
