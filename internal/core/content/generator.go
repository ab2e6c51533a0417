package content

import (
	"context"
	"regexp"
	"strings"
	"time"

	"seo-content-generator/internal/core/ai/provider"
	"seo-content-generator/internal/core/recipe"
	"seo-content-generator/internal/infrastructure/config"
	"seo-content-generator/internal/pkg/common"
	"seo-content-generator/internal/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Completer 單次 chat completion 呼叫
type Completer interface {
	Complete(ctx context.Context, stage string, req *provider.Request) (string, error)
}

// Generator 文章生成器
type Generator struct {
	completer   Completer
	maxTokens   int
	temperature float64
	config      config.GenerationConfig
}

var (
	codeFenceOpen  = regexp.MustCompile("^```[a-zA-Z]*\\s*")
	codeFenceClose = regexp.MustCompile("\\s*```$")
)

// NewGenerator 創建文章生成器
func NewGenerator(completer Completer, openai config.OpenAIConfig, gen config.GenerationConfig) *Generator {
	if gen.PartMaxTokens <= 0 {
		gen.PartMaxTokens = 2000
	}
	if gen.TitleMaxTokens <= 0 {
		gen.TitleMaxTokens = 100
	}
	if gen.DefaultMinWords <= 0 {
		gen.DefaultMinWords = 1000
	}
	return &Generator{
		completer:   completer,
		maxTokens:   openai.MaxTokens,
		temperature: openai.Temperature,
		config:      gen,
	}
}

// DefaultMinWords 未指定字數時使用的預設值
func (g *Generator) DefaultMinWords() int {
	return g.config.DefaultMinWords
}

// Generate 生成文章，任何 LLM 呼叫失敗即中止
func (g *Generator) Generate(ctx context.Context, keyword string, minWords int, settings PromptSettings) (*Article, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, common.NewValidationError("keyword is required")
	}
	if minWords <= 0 {
		minWords = g.config.DefaultMinWords
	}

	mode := ModeOf(settings)
	start := time.Now()
	common.LogInfo("Generating article",
		zap.String("keyword", keyword),
		zap.String("mode", string(mode)),
		zap.Int("min_words", minWords),
	)

	article, err := g.generate(ctx, mode, keyword, minWords, settings)
	metrics.ArticleGenerationDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ArticleGenerationTotal.WithLabelValues(string(mode), "error").Inc()
		common.LogError("Article generation failed",
			zap.String("keyword", keyword),
			zap.String("mode", string(mode)),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.ArticleGenerationTotal.WithLabelValues(string(mode), "success").Inc()
	metrics.ArticleWordCount.Observe(float64(article.WordCount))
	common.LogInfo("Article generated",
		zap.String("keyword", keyword),
		zap.Int("word_count", article.WordCount),
		zap.Bool("recipe", article.RecipeData != nil),
		zap.Duration("duration", time.Since(start)),
	)
	return article, nil
}

func (g *Generator) generate(ctx context.Context, mode Mode, keyword string, minWords int, settings PromptSettings) (*Article, error) {
	terms := ParseAvoidTerms(settings.ThingsToAvoid)

	var body string
	var err error
	if mode == ModeMultiPart {
		body, err = g.generateParts(ctx, keyword, minWords, settings, terms)
	} else {
		body, err = g.generateSingle(ctx, keyword, minWords, settings, terms)
	}
	if err != nil {
		return nil, err
	}

	title, err := g.generateTitle(ctx, keyword, settings, terms)
	if err != nil {
		return nil, err
	}

	article := &Article{
		Title:     title,
		Content:   body,
		WordCount: CountWords(body),
	}
	if settings.EnableRecipeDetection {
		article.RecipeData = recipe.Extract(body, keyword)
	}
	return article, nil
}

func (g *Generator) generateSingle(ctx context.Context, keyword string, minWords int, settings PromptSettings, terms []string) (string, error) {
	prompt := AssembleContentPrompt(PartFull, keyword, minWords, settings)
	return g.complete(ctx, PartFull.String(), prompt, g.maxTokens, terms)
}

// generateParts 依 20/60/20 分配字數，依序生成引言、主體與結論
func (g *Generator) generateParts(ctx context.Context, keyword string, minWords int, settings PromptSettings, terms []string) (string, error) {
	parts := []struct {
		part  Part
		words int
	}{
		{PartIntro, minWords * 20 / 100},
		{PartBody, minWords * 60 / 100},
		{PartConclusion, minWords * 20 / 100},
	}

	maxTokens := g.config.PartMaxTokens
	if g.maxTokens > 0 && g.maxTokens < maxTokens {
		maxTokens = g.maxTokens
	}

	outputs := make([]string, len(parts))
	if g.config.ParallelParts {
		eg, egCtx := errgroup.WithContext(ctx)
		for i, p := range parts {
			prompt := AssembleContentPrompt(p.part, keyword, p.words, settings)
			eg.Go(func() error {
				out, err := g.complete(egCtx, p.part.String(), prompt, maxTokens, terms)
				if err != nil {
					return err
				}
				outputs[i] = out
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return "", err
		}
	} else {
		for i, p := range parts {
			prompt := AssembleContentPrompt(p.part, keyword, p.words, settings)
			out, err := g.complete(ctx, p.part.String(), prompt, maxTokens, terms)
			if err != nil {
				return "", err
			}
			outputs[i] = out
		}
	}

	return SuppressTerms(strings.Join(outputs, "\n\n"), terms), nil
}

func (g *Generator) generateTitle(ctx context.Context, keyword string, settings PromptSettings, terms []string) (string, error) {
	prompt := AssembleTitlePrompt(keyword, settings)
	raw, err := g.complete(ctx, "title", prompt, g.config.TitleMaxTokens, nil)
	if err != nil {
		return "", err
	}
	title := strings.TrimSpace(strings.ReplaceAll(raw, `"`, ""))
	return SuppressTerms(title, terms), nil
}

// complete 呼叫 LLM 並立即套用避免詞過濾
func (g *Generator) complete(ctx context.Context, stage string, prompt Prompt, maxTokens int, terms []string) (string, error) {
	req := provider.NewChatRequest(prompt.System, prompt.User, maxTokens, g.temperature)
	out, err := g.completer.Complete(ctx, stage, req)
	if err != nil {
		return "", common.NewGenerationError(stage, err)
	}
	return SuppressTerms(cleanOutput(out), terms), nil
}

// cleanOutput 去除外層的 Markdown code fence
func cleanOutput(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = codeFenceOpen.ReplaceAllString(s, "")
		s = codeFenceClose.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}
