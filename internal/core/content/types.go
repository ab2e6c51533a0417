package content

import (
	"seo-content-generator/internal/core/recipe"
	"seo-content-generator/internal/infrastructure/config"
)

// PromptSettings 單次生成使用的提示詞設定
type PromptSettings struct {
	UseMultiPartGeneration bool   `json:"useMultiPartGeneration"`
	MainPrompt             string `json:"mainPrompt"`
	Part1Prompt            string `json:"part1Prompt"`
	Part2Prompt            string `json:"part2Prompt"`
	Part3Prompt            string `json:"part3Prompt"`
	ToneVoice              string `json:"toneVoice"`
	SEOGuidelines          string `json:"seoGuidelines"`
	ThingsToAvoid          string `json:"thingsToAvoid"`
	ArticleFormat          string `json:"articleFormat"`
	UseArticleFormat       bool   `json:"useArticleFormat"`
	EnableRecipeDetection  bool   `json:"enableRecipeDetection"`
	RecipeFormatPrompt     string `json:"recipeFormatPrompt"`
}

// SettingsFromConfig 由設定檔預設值建立 PromptSettings
func SettingsFromConfig(cfg config.PromptConfig) PromptSettings {
	return PromptSettings{
		UseMultiPartGeneration: cfg.UseMultiPartGeneration,
		MainPrompt:             cfg.MainPrompt,
		Part1Prompt:            cfg.Part1Prompt,
		Part2Prompt:            cfg.Part2Prompt,
		Part3Prompt:            cfg.Part3Prompt,
		ToneVoice:              cfg.ToneVoice,
		SEOGuidelines:          cfg.SEOGuidelines,
		ThingsToAvoid:          cfg.ThingsToAvoid,
		ArticleFormat:          cfg.ArticleFormat,
		UseArticleFormat:       cfg.UseArticleFormat,
		EnableRecipeDetection:  cfg.EnableRecipeDetection,
		RecipeFormatPrompt:     cfg.RecipeFormatPrompt,
	}
}

// Article 生成結果
type Article struct {
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	WordCount  int          `json:"wordCount"`
	RecipeData *recipe.Data `json:"recipeData"`
}

// Mode 生成模式
type Mode string

const (
	ModeSinglePass Mode = "single"
	ModeMultiPart  Mode = "multi"
)

// ModeOf 依設定選出生成模式
func ModeOf(settings PromptSettings) Mode {
	if settings.UseMultiPartGeneration {
		return ModeMultiPart
	}
	return ModeSinglePass
}
