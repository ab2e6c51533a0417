package handlers

import "seo-content-generator/internal/core/content"

// PromptSettingsRequest 請求中的提示詞設定，未提供的欄位沿用預設
type PromptSettingsRequest struct {
	UseMultiPartGeneration *bool   `json:"useMultiPartGeneration"`
	MainPrompt             *string `json:"mainPrompt"`
	Part1Prompt            *string `json:"part1Prompt"`
	Part2Prompt            *string `json:"part2Prompt"`
	Part3Prompt            *string `json:"part3Prompt"`
	ToneVoice              *string `json:"toneVoice"`
	SEOGuidelines          *string `json:"seoGuidelines"`
	ThingsToAvoid          *string `json:"thingsToAvoid"`
	ArticleFormat          *string `json:"articleFormat"`
	UseArticleFormat       *bool   `json:"useArticleFormat"`
	EnableRecipeDetection  *bool   `json:"enableRecipeDetection"`
	RecipeFormatPrompt     *string `json:"recipeFormatPrompt"`
}

// Apply 將請求值覆蓋到預設設定上
func (r *PromptSettingsRequest) Apply(base content.PromptSettings) content.PromptSettings {
	if r == nil {
		return base
	}
	setBool(&base.UseMultiPartGeneration, r.UseMultiPartGeneration)
	setString(&base.MainPrompt, r.MainPrompt)
	setString(&base.Part1Prompt, r.Part1Prompt)
	setString(&base.Part2Prompt, r.Part2Prompt)
	setString(&base.Part3Prompt, r.Part3Prompt)
	setString(&base.ToneVoice, r.ToneVoice)
	setString(&base.SEOGuidelines, r.SEOGuidelines)
	setString(&base.ThingsToAvoid, r.ThingsToAvoid)
	setString(&base.ArticleFormat, r.ArticleFormat)
	setBool(&base.UseArticleFormat, r.UseArticleFormat)
	setBool(&base.EnableRecipeDetection, r.EnableRecipeDetection)
	setString(&base.RecipeFormatPrompt, r.RecipeFormatPrompt)
	return base
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
