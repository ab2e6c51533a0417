package automation

import (
	"context"
	"time"

	"seo-content-generator/internal/core/content"
	"seo-content-generator/internal/core/keyword"
	"seo-content-generator/internal/core/publish"
	"seo-content-generator/internal/pkg/common"
	"seo-content-generator/internal/pkg/metrics"

	"go.uber.org/zap"
)

// ArticleGenerator 文章生成
type ArticleGenerator interface {
	Generate(ctx context.Context, keyword string, minWords int, settings content.PromptSettings) (*content.Article, error)
}

// Runner 依序處理使用者的待發佈關鍵字
type Runner struct {
	generator ArticleGenerator
	keywords  keyword.Store
	publisher publish.Publisher
	store     *Store
}

// NewRunner 創建任務執行器
func NewRunner(generator ArticleGenerator, keywords keyword.Store, publisher publish.Publisher, store *Store) *Runner {
	return &Runner{
		generator: generator,
		keywords:  keywords,
		publisher: publisher,
		store:     store,
	}
}

// Run 逐一生成、轉換、發佈，單一關鍵字失敗不影響後續
func (r *Runner) Run(ctx context.Context, job *Job) error {
	rows := r.keywords.Pending(job.Viewer())
	job.start(len(rows))
	r.save(ctx, job)

	common.LogInfo("Automation job started",
		zap.String("job_id", job.ID()),
		zap.String("user_id", job.Viewer().UserID),
		zap.Int("keywords", len(rows)),
	)

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			job.finish(err)
			r.save(context.WithoutCancel(ctx), job)
			return err
		}

		result := r.process(ctx, job, row)
		job.record(result)
		if result.Error != "" {
			metrics.JobKeywordsTotal.WithLabelValues("failed").Inc()
		} else {
			metrics.JobKeywordsTotal.WithLabelValues("published").Inc()
		}
		r.save(ctx, job)
	}

	job.finish(nil)
	r.save(ctx, job)

	snap := job.Snapshot()
	common.LogInfo("Automation job completed",
		zap.String("job_id", job.ID()),
		zap.Int("succeeded", snap.Succeeded),
		zap.Int("failed", snap.Failed),
	)
	return nil
}

func (r *Runner) process(ctx context.Context, job *Job, row keyword.Row) KeywordResult {
	result := KeywordResult{KeywordID: row.ID, Keyword: row.Keyword}
	opts := job.Options()

	article, err := r.generator.Generate(ctx, row.Keyword, opts.MinWords, opts.Settings)
	if err != nil {
		result.Error = err.Error()
		common.LogWarn("Keyword generation failed",
			zap.String("job_id", job.ID()),
			zap.String("keyword", row.Keyword),
			zap.Error(err),
		)
		return result
	}
	result.Title = article.Title
	result.WordCount = article.WordCount
	result.HasRecipe = article.RecipeData != nil

	published, err := publish.PublishArticle(ctx, r.publisher, article.Title, article.Content, opts.PostStatus)
	if err != nil {
		result.Error = err.Error()
		common.LogWarn("Keyword publish failed",
			zap.String("job_id", job.ID()),
			zap.String("keyword", row.Keyword),
			zap.Error(err),
		)
		return result
	}
	result.PostID = published.ID
	result.PostURL = published.Link
	result.Published = true

	if err := r.keywords.MarkPublished(row.ID, published.ID, published.Link, time.Now()); err != nil {
		result.Error = err.Error()
	}
	return result
}

func (r *Runner) save(ctx context.Context, job *Job) {
	if r.store != nil {
		r.store.Save(ctx, job)
	}
}
