package thread

import (
	"context"
	"testing"
	"time"

	"plaza-go/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestView(t *testing.T) *ThreadView {
	t.Helper()
	store := newFakeStore()
	store.addPost(1, true)
	return OpenThread(context.Background(), store, notify.NewMemoryNotifier(), 1, SortNewest, 10)
}

func TestRegistryAddGetRemove(t *testing.T) {
	r := NewRegistry(time.Minute)
	defer r.Close()

	v := openTestView(t)
	id := r.Add(v)
	require.NotEmpty(t, id)
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get(id)
	require.True(t, ok)
	assert.Same(t, v, got)

	_, ok = r.Get("不存在的ID")
	assert.False(t, ok)

	assert.True(t, r.Remove(id))
	assert.False(t, r.Remove(id), "重复注销返回 false")
	assert.Zero(t, r.Len())

	// Remove 连带关闭视图
	select {
	case <-v.Done():
	case <-time.After(time.Second):
		t.Fatal("注销后视图应已关闭")
	}
}

func TestRegistryEvictsIdleViews(t *testing.T) {
	r := NewRegistry(1200 * time.Millisecond)
	defer r.Close()

	v := openTestView(t)
	r.Add(v)

	// 闲置超过 TTL 后由清扫协程回收
	require.Eventually(t, func() bool { return r.Len() == 0 }, 5*time.Second, 50*time.Millisecond)

	select {
	case <-v.Done():
	default:
		t.Fatal("被回收的视图应已关闭")
	}
}

func TestRegistryCloseShutsEverything(t *testing.T) {
	r := NewRegistry(time.Minute)
	v1 := openTestView(t)
	v2 := openTestView(t)
	r.Add(v1)
	r.Add(v2)

	r.Close()
	r.Close()

	assert.Zero(t, r.Len())
	for _, v := range []*ThreadView{v1, v2} {
		select {
		case <-v.Done():
		default:
			t.Fatal("Close 后所有视图应已关闭")
		}
	}
}
