package notify

import (
	"context"
	"sync"
)

// MemoryNotifier 进程内的变更通知实现
// 单实例部署与测试时可替代 Redis，语义与 RedisNotifier 一致。
type MemoryNotifier struct {
	mu   sync.Mutex
	subs map[string]map[int]chan Event
	next int
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{subs: make(map[string]map[int]chan Event)}
}

// Publish 向频道的所有订阅者广播事件
func (n *MemoryNotifier) Publish(_ context.Context, channel string, ev Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs[channel] {
		select {
		case ch <- ev:
		default:
			// 订阅方积压时丢弃，语义同 RedisNotifier
		}
	}
	return nil
}

// Subscribe 订阅频道
func (n *MemoryNotifier) Subscribe(_ context.Context, channel string) (<-chan Event, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs[channel] == nil {
		n.subs[channel] = make(map[int]chan Event)
	}
	id := n.next
	n.next++
	ch := make(chan Event, 16)
	n.subs[channel][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[channel], id)
			close(ch)
		})
	}
	return ch, cancel
}
