package thread

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"plaza-go/internal/model"
	"plaza-go/internal/notify"
	"plaza-go/pkg/logger"

	"github.com/stretchr/testify/require"
)

func init() {
	// 测试里也会走 logger 的告警路径
	_ = logger.Init("error", "console", "stdout", "")
}

// fakeStore 内存版文档存储，分页语义与 Postgres 仓库一致
type fakeStore struct {
	mu       sync.Mutex
	posts    map[int64]*PostMeta
	comments map[int64]model.Comment
	nextID   int64
	clock    time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		posts:    make(map[int64]*PostMeta),
		comments: make(map[int64]model.Comment),
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *fakeStore) addPost(id int64, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[id] = &PostMeta{PostID: id, CommentsEnabled: enabled}
}

func (s *fakeStore) setCommentCount(postID, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.posts[postID]; ok {
		m.CommentCount = count
	}
}

// seed 直接落一条评论（绕过 Composer），时间戳单调递增
func (s *fakeStore) seed(postID int64, parentID *int64, text string) model.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.clock = s.clock.Add(time.Second)
	c := model.Comment{
		ID:        s.nextID,
		PostID:    postID,
		ParentID:  parentID,
		AuthorID:  1,
		Text:      text,
		CreatedAt: s.clock,
	}
	s.comments[c.ID] = c
	return c
}

func (s *fakeStore) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.comments, id)
}

func (s *fakeStore) PostMeta(_ context.Context, postID int64) (*PostMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.posts[postID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *fakeStore) GetComment(_ context.Context, id int64) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (s *fakeStore) RootPage(_ context.Context, postID int64, mode SortMode, limit int, after *Cursor) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]model.Comment, 0)
	for _, c := range s.comments {
		if c.PostID == postID && c.ParentID == nil {
			rows = append(rows, c)
		}
	}
	sortRows(rows, mode)
	return pageAfter(rows, mode, limit, after), nil
}

func (s *fakeStore) ReplyPage(_ context.Context, parentID int64, limit int, after *Cursor) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]model.Comment, 0)
	for _, c := range s.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			rows = append(rows, c)
		}
	}
	sortRows(rows, SortOldest)
	return pageAfter(rows, SortOldest, limit, after), nil
}

func (s *fakeStore) CreateComment(_ context.Context, c *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.clock = s.clock.Add(time.Second)
	c.ID = s.nextID
	c.CreatedAt = s.clock
	s.comments[c.ID] = *c
	return nil
}

func (s *fakeStore) UpdateCommentText(_ context.Context, id int64, text string) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := s.clock.Add(time.Second)
	c.Text = text
	c.Edited = true
	c.EditedAt = &now
	s.comments[id] = c
	cp := c
	return &cp, nil
}

func (s *fakeStore) DeleteCommentTree(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return ErrNotFound
	}
	for cid, c := range s.comments {
		if c.ParentID != nil && *c.ParentID == id {
			delete(s.comments, cid)
		}
	}
	delete(s.comments, id)
	return nil
}

func sortRows(rows []model.Comment, mode SortMode) {
	sort.Slice(rows, func(i, j int) bool {
		return sortsBefore(rows[i], rows[j], mode)
	})
}

func pageAfter(rows []model.Comment, mode SortMode, limit int, after *Cursor) []model.Comment {
	start := 0
	if after != nil {
		for i, c := range rows {
			boundary := model.Comment{ID: after.ID, CreatedAt: after.CreatedAt}
			if sortsBefore(boundary, c, mode) {
				start = i
				break
			}
			start = len(rows)
		}
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}
	out := make([]model.Comment, end-start)
	copy(out, rows[start:end])
	return out
}

// collector 把 Broker 投递的事件收进切片
type collector struct {
	mu     sync.Mutex
	events []notify.Event
}

func (c *collector) Publish(_ context.Context, ev notify.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *collector) all() []notify.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]notify.Event, len(c.events))
	copy(out, c.events)
	return out
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 3*time.Second, 10*time.Millisecond)
}

func ids(items []model.Comment) []int64 {
	out := make([]int64, 0, len(items))
	for _, c := range items {
		out = append(out, c.ID)
	}
	return out
}

func ptr(v int64) *int64 {
	return &v
}
