package keyword

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"seo-content-generator/internal/pkg/common"
)

// Status 關鍵字狀態
type Status string

const (
	StatusPending   Status = "Pending"
	StatusPublished Status = "Published"
)

// Row 一筆關鍵字資料
type Row struct {
	ID              string     `json:"id"`
	Keyword         string     `json:"keyword"`
	Status          Status     `json:"status"`
	OwnerID         string     `json:"ownerId"`
	CreatedBy       string     `json:"createdBy"`
	PostID          int        `json:"postId,omitempty"`
	PostURL         string     `json:"postUrl,omitempty"`
	PublicationDate *time.Time `json:"publicationDate,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Store 關鍵字儲存
type Store interface {
	Add(viewer common.Viewer, keyword, ownerID string) (*Row, error)
	Get(viewer common.Viewer, id string) (*Row, error)
	List(viewer common.Viewer) []Row
	Pending(viewer common.Viewer) []Row
	MarkPublished(id string, postID int, link string, at time.Time) error
	Delete(viewer common.Viewer, id string) error
}

// MemoryStore 記憶體關鍵字儲存，(lower(keyword), ownerId) 唯一
type MemoryStore struct {
	mu    sync.RWMutex
	rows  map[string]*Row
	index map[string]string
	seq   int64
	order map[string]int64
}

// NewMemoryStore 創建記憶體關鍵字儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:  make(map[string]*Row),
		index: make(map[string]string),
		order: make(map[string]int64),
	}
}

func uniqueKey(keyword, ownerID string) string {
	return strings.ToLower(keyword) + "\x00" + ownerID
}

// Add 新增關鍵字，員工只能新增給自己
func (s *MemoryStore) Add(viewer common.Viewer, keyword, ownerID string) (*Row, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, common.NewValidationError("keyword is required")
	}
	if viewer.UserID == "" {
		return nil, common.NewValidationError("user id is required")
	}
	if ownerID == "" {
		ownerID = viewer.UserID
	}
	if !viewer.IsAdmin() && ownerID != viewer.UserID {
		return nil, common.ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := uniqueKey(keyword, ownerID)
	if _, exists := s.index[key]; exists {
		return nil, common.NewError(common.ErrCodeConflict,
			fmt.Sprintf("keyword %q already exists for this owner", keyword), common.ErrConflict.Status, nil)
	}

	row := &Row{
		ID:        common.GenerateUUID(),
		Keyword:   keyword,
		Status:    StatusPending,
		OwnerID:   ownerID,
		CreatedBy: viewer.UserID,
		CreatedAt: time.Now(),
	}
	s.rows[row.ID] = row
	s.index[key] = row.ID
	s.seq++
	s.order[row.ID] = s.seq

	copied := *row
	return &copied, nil
}

// Get 取得關鍵字
func (s *MemoryStore) Get(viewer common.Viewer, id string) (*Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if !viewer.CanAccess(row.OwnerID) {
		return nil, common.ErrForbidden
	}
	copied := *row
	return &copied, nil
}

// List 依新增順序列出可見的關鍵字
func (s *MemoryStore) List(viewer common.Viewer) []Row {
	return s.filter(viewer, func(*Row) bool { return true })
}

// Pending 列出尚未發佈的關鍵字
func (s *MemoryStore) Pending(viewer common.Viewer) []Row {
	return s.filter(viewer, func(r *Row) bool { return r.Status == StatusPending })
}

func (s *MemoryStore) filter(viewer common.Viewer, keep func(*Row) bool) []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Row, 0, len(s.rows))
	for _, row := range s.rows {
		if viewer.CanAccess(row.OwnerID) && keep(row) {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.order[out[i].ID] < s.order[out[j].ID]
	})
	return out
}

// MarkPublished 記錄發佈結果
func (s *MemoryStore) MarkPublished(id string, postID int, link string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	row.Status = StatusPublished
	row.PostID = postID
	row.PostURL = link
	published := at
	row.PublicationDate = &published
	return nil
}

// Delete 刪除關鍵字
func (s *MemoryStore) Delete(viewer common.Viewer, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	if !viewer.CanAccess(row.OwnerID) {
		return common.ErrForbidden
	}
	delete(s.rows, id)
	delete(s.index, uniqueKey(row.Keyword, row.OwnerID))
	delete(s.order, id)
	return nil
}
