package thread

import (
	"sync"
	"time"

	"plaza-go/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry 已打开线程视图的会话表
// 视图以不透明 ID 交给表示层引用；超过 TTL 未被访问的视图由
// 清扫协程关闭，保证断线客户端不会泄漏存储侧监听器。
type Registry struct {
	mu    sync.Mutex
	views map[string]*registryEntry
	ttl   time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

type registryEntry struct {
	view     *ThreadView
	lastSeen time.Time
}

// NewRegistry 创建会话表并启动清扫协程
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	r := &Registry{
		views: make(map[string]*registryEntry),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	go r.janitor()
	return r
}

// Add 登记视图，返回不透明视图 ID
func (r *Registry) Add(view *ThreadView) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.views[id] = &registryEntry{view: view, lastSeen: time.Now()}
	r.mu.Unlock()
	return id
}

// Get 取回视图并续期
func (r *Registry) Get(id string) (*ThreadView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.views[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = time.Now()
	return entry.view, true
}

// Remove 注销并关闭视图
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	entry, ok := r.views[id]
	if ok {
		delete(r.views, id)
	}
	r.mu.Unlock()

	if ok {
		entry.view.Close()
	}
	return ok
}

// Len 当前打开的视图数
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Close 停止清扫并关闭所有视图
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })

	r.mu.Lock()
	entries := make([]*registryEntry, 0, len(r.views))
	for _, e := range r.views {
		entries = append(entries, e)
	}
	r.views = make(map[string]*registryEntry)
	r.mu.Unlock()

	for _, e := range entries {
		e.view.Close()
	}
}

func (r *Registry) janitor() {
	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case now := <-ticker.C:
			r.evictExpired(now)
		}
	}
}

func (r *Registry) evictExpired(now time.Time) {
	r.mu.Lock()
	expired := make([]*registryEntry, 0)
	for id, e := range r.views {
		if now.Sub(e.lastSeen) > r.ttl {
			delete(r.views, id)
			expired = append(expired, e)
		}
	}
	r.mu.Unlock()

	for _, e := range expired {
		e.view.Close()
	}
	if len(expired) > 0 {
		logger.Debug("Evicted idle thread views", zap.Int("count", len(expired)))
	}
}
