package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"seo-content-generator/internal/api/handlers/health"
	"seo-content-generator/internal/core/automation"
	"seo-content-generator/internal/core/content"
	"seo-content-generator/internal/core/keyword"
	"seo-content-generator/internal/core/publish"
	"seo-content-generator/internal/infrastructure/config"
	"seo-content-generator/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	mu       sync.Mutex
	keywords []string
	err      error
	block    bool
}

func (g *stubGenerator) Generate(ctx context.Context, kw string, minWords int, settings content.PromptSettings) (*content.Article, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.keywords = append(g.keywords, kw)
	if g.block {
		<-ctx.Done()
		return nil, common.NewGenerationError("full", ctx.Err())
	}
	if g.err != nil {
		return nil, g.err
	}
	return &content.Article{
		Title:     "All About " + kw,
		Content:   "<h2>" + kw + "</h2><p>Body</p>",
		WordCount: 3,
	}, nil
}

type stubPublisher struct {
	mu    sync.Mutex
	posts []publish.Post
}

func (p *stubPublisher) Publish(ctx context.Context, post publish.Post) (*publish.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts = append(p.posts, post)
	return &publish.Result{ID: 100 + len(p.posts), Link: "https://blog.example.com/?p=1"}, nil
}

type testServer struct {
	router    http.Handler
	generator *stubGenerator
	publisher *stubPublisher
	keywords  *keyword.MemoryStore
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Env: "test", Version: "test"},
		Server:    config.ServerConfig{RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 16},
		OpenAI:    config.OpenAIConfig{Model: "gpt-test"},
		Job:       config.JobConfig{TTL: time.Hour, CleanupInterval: time.Hour, MaxJobs: 10},
		Queue:     config.QueueConfig{Workers: 1, MaxSize: 4},
		RateLimit: config.RateLimitConfig{Enabled: false},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, withPublisher bool, checks map[string]health.Check) *testServer {
	t.Helper()

	ts := &testServer{
		generator: &stubGenerator{},
		keywords:  keyword.NewMemoryStore(),
	}

	var publisher publish.Publisher
	if withPublisher {
		ts.publisher = &stubPublisher{}
		publisher = ts.publisher
	}

	jobs := automation.NewStore(cfg.Job, nil)
	queue := automation.NewQueue(cfg.Queue, automation.NewRunner(ts.generator, ts.keywords, publisher, jobs))
	ctx, cancel := context.WithCancel(context.Background())
	queue.Start(ctx)
	t.Cleanup(func() {
		cancel()
		queue.Close()
		_ = jobs.Close()
	})

	router, err := SetupRouter(cfg, Dependencies{
		Generator:   ts.generator,
		Publisher:   publisher,
		Keywords:    ts.keywords,
		Jobs:        jobs,
		Queue:       queue,
		ReadyChecks: checks,
	})
	require.NoError(t, err)
	ts.router = router
	return ts
}

func (ts *testServer) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func asUser(id, role string) map[string]string {
	return map[string]string{"X-User-ID": id, "X-User-Role": role}
}

func TestSetupRouterRejectsMissingDependencies(t *testing.T) {
	_, err := SetupRouter(testConfig(), Dependencies{})
	assert.Error(t, err)
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t, testConfig(), false, map[string]health.Check{
		"redis": func(ctx context.Context) error { return errors.New("connection refused") },
	})

	w := ts.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body health.HealthResponse
	decode(t, w, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "gpt-test", body.Model)
	assert.False(t, body.WordPress)
	require.NotNil(t, body.Queue)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/live", "", nil).Code)

	w = ts.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")

	w = ts.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestGenerateArticle(t *testing.T) {
	ts := newTestServer(t, testConfig(), false, nil)

	w := ts.do(http.MethodPost, "/api/v1/articles/generate", `{"keyword":"paleo breakfast","minWords":800}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var article content.Article
	decode(t, w, &article)
	assert.Equal(t, "All About paleo breakfast", article.Title)
	assert.Equal(t, 3, article.WordCount)
	assert.Nil(t, article.RecipeData)
	assert.Equal(t, []string{"paleo breakfast"}, ts.generator.keywords)
}

func TestGenerateArticleErrors(t *testing.T) {
	ts := newTestServer(t, testConfig(), false, nil)

	w := ts.do(http.MethodPost, "/api/v1/articles/generate", `{"minWords":800}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var errBody common.ErrorResponse
	decode(t, w, &errBody)
	assert.Equal(t, common.ErrCodeInvalidRequest, errBody.Code)

	w = ts.do(http.MethodPost, "/api/v1/articles/generate", `{"keyword":"x","minWords":-1}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ts.generator.err = common.NewGenerationError("full", errors.New("upstream 500"))
	w = ts.do(http.MethodPost, "/api/v1/articles/generate", `{"keyword":"banana bread"}`, nil)
	require.Equal(t, http.StatusBadGateway, w.Code)
	decode(t, w, &errBody)
	assert.Equal(t, common.ErrCodeGenerationFailed, errBody.Code)
	assert.Equal(t, "upstream 500", errBody.Message)
}

func TestPublishRequiresWordPress(t *testing.T) {
	ts := newTestServer(t, testConfig(), false, nil)

	w := ts.do(http.MethodPost, "/api/v1/articles/publish", `{"title":"T","content":"<p>x</p>"}`, nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "PUBLISHER_DISABLED")

	w = ts.do(http.MethodPost, "/api/v1/automation/jobs", "", asUser("alice", "employee"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPublishConvertsToBlocks(t *testing.T) {
	ts := newTestServer(t, testConfig(), true, nil)

	w := ts.do(http.MethodPost, "/api/v1/articles/publish", `{"title":" Banana Bread ","content":"<p>Moist.</p>","status":"draft"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var result publish.Result
	decode(t, w, &result)
	assert.Equal(t, 101, result.ID)

	require.Len(t, ts.publisher.posts, 1)
	post := ts.publisher.posts[0]
	assert.Equal(t, "Banana Bread", post.Title)
	assert.Equal(t, "<!-- wp:paragraph -->\n<p>Moist.</p>\n<!-- /wp:paragraph -->", post.Content)
}

func TestFormatEndpoint(t *testing.T) {
	ts := newTestServer(t, testConfig(), false, nil)

	w := ts.do(http.MethodPost, "/api/v1/format", `{"content":"## Intro\n\nHello"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "<!-- wp:heading -->\n<h2>Intro</h2>\n<!-- /wp:heading -->\n\n<!-- wp:paragraph -->\n<p>Hello</p>\n<!-- /wp:paragraph -->", body["content"])

	w = ts.do(http.MethodPost, "/api/v1/format", `{"content":42}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &body)
	assert.Equal(t, "42", body["content"])
}

func TestRecipeExtractEndpoint(t *testing.T) {
	ts := newTestServer(t, testConfig(), false, nil)

	w := ts.do(http.MethodPost, "/api/v1/recipes/extract", `{"content":"<p>A travel story about Lisbon.</p>","keyword":"lisbon"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isRecipe":false,"recipeData":null}`, w.Body.String())

	w = ts.do(http.MethodPost, "/api/v1/recipes/extract", `{"keyword":"lisbon"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKeywordEndpoints(t *testing.T) {
	ts := newTestServer(t, testConfig(), false, nil)

	w := ts.do(http.MethodGet, "/api/v1/keywords", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/keywords", "", asUser("alice", "owner"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/keywords", `{"keyword":"banana bread"}`, asUser("alice", "employee"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var row keyword.Row
	decode(t, w, &row)
	assert.Equal(t, "alice", row.OwnerID)
	assert.Equal(t, keyword.StatusPending, row.Status)

	w = ts.do(http.MethodPost, "/api/v1/keywords", `{"keyword":"Banana Bread"}`, asUser("alice", ""))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/keywords", `{"keyword":"salmon","ownerId":"alice"}`, asUser("bob", "employee"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/keywords", `{"keyword":"salmon","ownerId":"bob"}`, asUser("root", "admin"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/keywords?status=pending", "", asUser("alice", "employee"))
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Keywords []keyword.Row `json:"keywords"`
		Count    int           `json:"count"`
	}
	decode(t, w, &list)
	assert.Equal(t, 1, list.Count)

	w = ts.do(http.MethodGet, "/api/v1/keywords", "", asUser("root", "admin"))
	decode(t, w, &list)
	assert.Equal(t, 2, list.Count)

	w = ts.do(http.MethodDelete, "/api/v1/keywords/"+row.ID, "", asUser("bob", "employee"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = ts.do(http.MethodDelete, "/api/v1/keywords/"+row.ID, "", asUser("alice", "employee"))
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(http.MethodDelete, "/api/v1/keywords/"+row.ID, "", asUser("alice", "employee"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAutomationJobLifecycle(t *testing.T) {
	ts := newTestServer(t, testConfig(), true, nil)

	for _, kw := range []string{"banana bread", "paleo breakfast"} {
		w := ts.do(http.MethodPost, "/api/v1/keywords", `{"keyword":"`+kw+`"}`, asUser("alice", "employee"))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := ts.do(http.MethodPost, "/api/v1/automation/jobs", `{"status":"private"}`, asUser("alice", "employee"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/automation/jobs", `{"status":"publish","minWords":500}`, asUser("alice", "employee"))
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	var snap automation.Snapshot
	decode(t, w, &snap)
	require.NotEmpty(t, snap.ID)

	require.Eventually(t, func() bool {
		w := ts.do(http.MethodGet, "/api/v1/automation/jobs/"+snap.ID, "", asUser("alice", "employee"))
		if w.Code != http.StatusOK {
			return false
		}
		var current automation.Snapshot
		if err := json.Unmarshal(w.Body.Bytes(), &current); err != nil {
			return false
		}
		snap = current
		return current.State.Finished()
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, automation.StateCompleted, snap.State)
	assert.Equal(t, 2, snap.Succeeded)
	require.Len(t, snap.Results, 2)
	assert.True(t, snap.Results[0].Published)

	w = ts.do(http.MethodGet, "/api/v1/automation/jobs/"+snap.ID, "", asUser("bob", "employee"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = ts.do(http.MethodGet, "/api/v1/automation/jobs/"+snap.ID, "", asUser("root", "admin"))
	assert.Equal(t, http.StatusOK, w.Code)
	w = ts.do(http.MethodGet, "/api/v1/automation/jobs/missing", "", asUser("root", "admin"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/keywords?status=pending", "", asUser("alice", "employee"))
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestDuplicatePostsAreRejected(t *testing.T) {
	cfg := testConfig()
	cfg.DedupWindow = time.Minute
	ts := newTestServer(t, cfg, false, nil)

	body := `{"content":"<p>once</p>"}`
	assert.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/api/v1/format", body, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, ts.do(http.MethodPost, "/api/v1/format", body, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/api/v1/format", `{"content":"<p>twice</p>"}`, nil).Code)
}

func TestRateLimitAndBodySize(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute}
	cfg.Server.MaxBodyBytes = 64
	ts := newTestServer(t, cfg, false, nil)

	w := ts.do(http.MethodPost, "/api/v1/format", `{"content":"`+strings.Repeat("a", 100)+`"}`, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	assert.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/api/v1/format", `{"content":"a"}`, nil).Code)
	w = ts.do(http.MethodPost, "/api/v1/format", `{"content":"b"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// 健康檢查不受限流
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/live", "", nil).Code)
}

func TestFailedPostCanBeRetriedInsideDedupWindow(t *testing.T) {
	cfg := testConfig()
	cfg.DedupWindow = time.Minute
	ts := newTestServer(t, cfg, false, nil)

	body := `{"keyword":"banana bread"}`
	ts.generator.err = common.NewGenerationError("full", errors.New("upstream 500"))
	assert.Equal(t, http.StatusBadGateway, ts.do(http.MethodPost, "/api/v1/articles/generate", body, nil).Code)
	assert.Equal(t, http.StatusBadGateway, ts.do(http.MethodPost, "/api/v1/articles/generate", body, nil).Code)

	ts.generator.err = nil
	assert.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/api/v1/articles/generate", body, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, ts.do(http.MethodPost, "/api/v1/articles/generate", body, nil).Code)
	assert.Len(t, ts.generator.keywords, 3)
}

func TestRequestTimeoutCancelsGeneration(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RequestTimeout = 50 * time.Millisecond
	ts := newTestServer(t, cfg, false, nil)
	ts.generator.block = true

	start := time.Now()
	w := ts.do(http.MethodPost, "/api/v1/articles/generate", `{"keyword":"slow roast"}`, nil)
	assert.Less(t, time.Since(start), 2*time.Second)

	require.Equal(t, http.StatusGatewayTimeout, w.Code, w.Body.String())
	var errBody common.ErrorResponse
	decode(t, w, &errBody)
	assert.Equal(t, common.ErrCodeGatewayTimeout, errBody.Code)
}
