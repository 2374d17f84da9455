package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryNotifierFanOut(t *testing.T) {
	n := NewMemoryNotifier()
	ctx := context.Background()

	ch1, cancel1 := n.Subscribe(ctx, CommentChannel(1))
	ch2, cancel2 := n.Subscribe(ctx, CommentChannel(1))
	other, cancelOther := n.Subscribe(ctx, CommentChannel(2))
	defer cancel1()
	defer cancel2()
	defer cancelOther()

	ev := Event{Kind: EventCreated, PostID: 1, CommentID: 10}
	require.NoError(t, n.Publish(ctx, CommentChannel(1), ev))

	assert.Equal(t, ev, <-ch1)
	assert.Equal(t, ev, <-ch2)

	// 别的频道收不到
	select {
	case got := <-other:
		t.Fatalf("不应收到事件: %+v", got)
	default:
	}
}

func TestMemoryNotifierCancel(t *testing.T) {
	n := NewMemoryNotifier()
	ctx := context.Background()

	ch, cancel := n.Subscribe(ctx, MetaChannel(1))
	cancel()
	cancel() // 幂等

	_, ok := <-ch
	assert.False(t, ok, "取消后通道应已关闭")

	// 没有订阅者时发布不报错
	require.NoError(t, n.Publish(ctx, MetaChannel(1), Event{Kind: EventMeta, PostID: 1}))
}

func TestMemoryNotifierDropsWhenBacklogged(t *testing.T) {
	n := NewMemoryNotifier()
	ctx := context.Background()

	ch, cancel := n.Subscribe(ctx, CommentChannel(1))
	defer cancel()

	// 塞满缓冲后继续发布不阻塞
	for i := 0; i < 40; i++ {
		require.NoError(t, n.Publish(ctx, CommentChannel(1), Event{Kind: EventCreated, PostID: 1, CommentID: int64(i)}))
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	assert.Greater(t, received, 0)
	assert.Less(t, received, 40, "积压事件被丢弃")
}
