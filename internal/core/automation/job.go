package automation

import (
	"sync"
	"time"

	"seo-content-generator/internal/core/content"
	"seo-content-generator/internal/pkg/common"
)

// State 任務狀態
type State string

const (
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Finished 是否已結束
func (s State) Finished() bool {
	return s == StateCompleted || s == StateFailed
}

// KeywordResult 單一關鍵字的處理結果
type KeywordResult struct {
	KeywordID string `json:"keywordId"`
	Keyword   string `json:"keyword"`
	Title     string `json:"title,omitempty"`
	WordCount int    `json:"wordCount,omitempty"`
	HasRecipe bool   `json:"hasRecipe"`
	PostID    int    `json:"postId,omitempty"`
	PostURL   string `json:"postUrl,omitempty"`
	Published bool   `json:"published"`
	Error     string `json:"error,omitempty"`
}

// Options 建立任務時的參數
type Options struct {
	Settings   content.PromptSettings
	MinWords   int
	PostStatus string
}

// Job 一次自動化執行的任務上下文，所有進度都掛在這裡而非全域
type Job struct {
	mu sync.Mutex

	id        string
	viewer    common.Viewer
	options   Options
	state     State
	total     int
	processed int
	succeeded int
	failed    int
	results   map[string]*KeywordResult
	order     []string
	errors    []string
	createdAt time.Time
	started   time.Time
	finished  time.Time
}

// Snapshot 任務的唯讀快照
type Snapshot struct {
	ID         string          `json:"id"`
	Viewer     common.Viewer   `json:"viewer"`
	State      State           `json:"state"`
	Total      int             `json:"total"`
	Processed  int             `json:"processed"`
	Succeeded  int             `json:"succeeded"`
	Failed     int             `json:"failed"`
	Results    []KeywordResult `json:"results"`
	Errors     []string        `json:"errors"`
	CreatedAt  time.Time       `json:"createdAt"`
	StartedAt  *time.Time      `json:"startedAt,omitempty"`
	FinishedAt *time.Time      `json:"finishedAt,omitempty"`
}

func newJob(viewer common.Viewer, opts Options) *Job {
	return &Job{
		id:        common.GenerateUUID(),
		viewer:    viewer,
		options:   opts,
		state:     StateQueued,
		results:   make(map[string]*KeywordResult),
		createdAt: time.Now(),
	}
}

// ID 任務 ID
func (j *Job) ID() string { return j.id }

// Viewer 建立任務的使用者
func (j *Job) Viewer() common.Viewer { return j.viewer }

// Options 任務參數
func (j *Job) Options() Options { return j.options }

// Result 依關鍵字列 ID 取得結果
func (j *Job) Result(keywordID string) (KeywordResult, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	r, ok := j.results[keywordID]
	if !ok {
		return KeywordResult{}, false
	}
	return *r, true
}

func (j *Job) start(total int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = StateRunning
	j.total = total
	j.started = time.Now()
}

func (j *Job) record(result KeywordResult) {
	j.mu.Lock()
	defer j.mu.Unlock()

	// 不同擁有者可有同名關鍵字，以列 ID 區分
	key := result.KeywordID
	if key == "" {
		key = result.Keyword
	}
	if _, seen := j.results[key]; !seen {
		j.order = append(j.order, key)
	}
	r := result
	j.results[key] = &r
	j.processed++
	if result.Error != "" {
		j.failed++
		j.errors = append(j.errors, result.Keyword+": "+result.Error)
	} else {
		j.succeeded++
	}
}

func (j *Job) finish(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.finished = time.Now()
	if err != nil {
		j.state = StateFailed
		j.errors = append(j.errors, err.Error())
		return
	}
	j.state = StateCompleted
}

func (j *Job) expired(now time.Time, ttl time.Duration) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state.Finished() && now.Sub(j.finished) > ttl
}

// Snapshot 產生快照
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	snap := Snapshot{
		ID:        j.id,
		Viewer:    j.viewer,
		State:     j.state,
		Total:     j.total,
		Processed: j.processed,
		Succeeded: j.succeeded,
		Failed:    j.failed,
		Results:   make([]KeywordResult, 0, len(j.order)),
		Errors:    append([]string(nil), j.errors...),
		CreatedAt: j.createdAt,
	}
	for _, kw := range j.order {
		snap.Results = append(snap.Results, *j.results[kw])
	}
	if !j.started.IsZero() {
		started := j.started
		snap.StartedAt = &started
	}
	if !j.finished.IsZero() {
		finished := j.finished
		snap.FinishedAt = &finished
	}
	return snap
}
