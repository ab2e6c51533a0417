package content

import (
	"regexp"
	"strconv"
	"strings"
)

// Part 多段生成的段落
type Part int

const (
	PartFull Part = iota
	PartIntro
	PartBody
	PartConclusion
)

func (p Part) String() string {
	switch p {
	case PartIntro:
		return "intro"
	case PartBody:
		return "body"
	case PartConclusion:
		return "conclusion"
	default:
		return "full"
	}
}

// Prompt 一次 LLM 呼叫的系統與使用者提示詞
type Prompt struct {
	System string
	User   string
}

// PromptVars 模板替換變數
type PromptVars struct {
	Keyword  string
	MinWords int
}

const basePersona = "You are an expert SEO content writer who creates engaging, well-structured, and informative articles in clean HTML."

// 預設模板 v1
const (
	defaultMainPrompt = `Write a comprehensive, SEO-optimized article about "{keyword}" of at least {minWords} words.

Requirements:
- Use only H2 and H3 headings. Do not use H1, it is reserved for the title.
- Start with an engaging introduction, follow with a detailed body split into clear sections, and end with a conclusion.
- Format the article in HTML: use <h2> and <h3> for headings, <p> for paragraphs, <ul>/<li> for bullet lists and <ol>/<li> for numbered lists.
- Write in a conversational, reader-friendly tone.
- Return only the article HTML, without a title and without Markdown.`

	defaultPart1Prompt = `Write the introduction of an article about "{keyword}" in about {minWords} words.
Hook the reader, explain why the topic matters and preview what the article covers.
Use HTML: <p> for paragraphs and at most one <h2> heading. Do not use H1. Return only the HTML.`

	defaultPart2Prompt = `Write the main body of an article about "{keyword}" in about {minWords} words.
Split the content into sections with <h2> and <h3> headings, explain each point in detail with <p> paragraphs, and use <ul>/<li> or <ol>/<li> lists where they help.
Do not write an introduction or a conclusion. Do not use H1. Return only the HTML.`

	defaultPart3Prompt = `Write the conclusion of an article about "{keyword}" in about {minWords} words.
Start with an <h2> heading, summarize the key points in <p> paragraphs and end with a clear call to action.
Do not use H1. Return only the HTML.`

	defaultRecipeFormat = `If this article describes a recipe, include these sections, each under its own <h2> heading:
- Ingredients: an <ul> list with quantities and units (cups, tablespoons, teaspoons, ounces, pounds)
- Instructions: an <ol> list of numbered steps
- Notes: an <ul> list of tips
Also state the prep time, cook time and total time in minutes (for example "Prep Time: 15 minutes"), the number of servings, and a Nutrition section with calories, fat, carbohydrates and protein per serving.`
)

var recipeSignalPattern = regexp.MustCompile(`(?i)recipe|dish|cook|bake|food|meal|breakfast|lunch|dinner|dessert|appetizer|snack`)

// BuildPrompt 以字面字串替換全部的 {keyword} 與 {minWords}
func BuildPrompt(template string, vars PromptVars) string {
	out := strings.ReplaceAll(template, "{keyword}", vars.Keyword)
	return strings.ReplaceAll(out, "{minWords}", strconv.Itoa(vars.MinWords))
}

// IsRecipeKeyword 關鍵字是否帶有食譜訊號
func IsRecipeKeyword(keyword string) bool {
	return recipeSignalPattern.MatchString(keyword)
}

// SystemPrompt 基本角色加上語氣指示
func SystemPrompt(settings PromptSettings) string {
	tone := strings.TrimSpace(settings.ToneVoice)
	if tone == "" {
		return basePersona
	}
	return basePersona + "\n\nTone and voice: " + tone
}

// AssembleContentPrompt 組合內文提示詞，附錄順序固定為 SEO、避免詞、文章格式、食譜格式
func AssembleContentPrompt(part Part, keyword string, wordCount int, settings PromptSettings) Prompt {
	vars := PromptVars{Keyword: keyword, MinWords: wordCount}

	var b strings.Builder
	b.WriteString(BuildPrompt(partTemplate(part, settings), vars))

	if seo := strings.TrimSpace(settings.SEOGuidelines); seo != "" {
		b.WriteString("\n\nSEO guidelines:\n")
		b.WriteString(BuildPrompt(seo, vars))
	}

	if terms := ParseAvoidTerms(settings.ThingsToAvoid); len(terms) > 0 {
		b.WriteString("\n\nIMPORTANT: You must NEVER use any of the following words or phrases anywhere in the content: ")
		b.WriteString(strings.Join(terms, ", "))
		b.WriteString(". Use different wording instead.")
	}

	if settings.UseArticleFormat && strings.TrimSpace(settings.ArticleFormat) != "" {
		b.WriteString("\n\n")
		b.WriteString(formatLead(part))
		b.WriteString("\n")
		b.WriteString(BuildPrompt(settings.ArticleFormat, vars))
	}

	if settings.EnableRecipeDetection && IsRecipeKeyword(keyword) {
		recipeFormat := settings.RecipeFormatPrompt
		if strings.TrimSpace(recipeFormat) == "" {
			recipeFormat = defaultRecipeFormat
		}
		b.WriteString("\n\n")
		b.WriteString(recipeLead(part))
		b.WriteString("\n")
		b.WriteString(BuildPrompt(recipeFormat, vars))
	}

	return Prompt{
		System: SystemPrompt(settings),
		User:   b.String(),
	}
}

// AssembleTitlePrompt 組合標題提示詞，避免詞只針對標題用字
func AssembleTitlePrompt(keyword string, settings PromptSettings) Prompt {
	var b strings.Builder
	b.WriteString(`Write one clickable, SEO-friendly title for an article about "`)
	b.WriteString(keyword)
	b.WriteString(`". Keep it under 60 characters, include the keyword, and return only the title text.`)

	if terms := ParseAvoidTerms(settings.ThingsToAvoid); len(terms) > 0 {
		b.WriteString("\n\nDo not use any of these words in the title: ")
		b.WriteString(strings.Join(terms, ", "))
		b.WriteString(".")
	}

	return Prompt{
		System: basePersona,
		User:   b.String(),
	}
}

func partTemplate(part Part, settings PromptSettings) string {
	pick := func(custom, fallback string) string {
		if strings.TrimSpace(custom) != "" {
			return custom
		}
		return fallback
	}

	switch part {
	case PartIntro:
		return pick(settings.Part1Prompt, defaultPart1Prompt)
	case PartBody:
		return pick(settings.Part2Prompt, defaultPart2Prompt)
	case PartConclusion:
		return pick(settings.Part3Prompt, defaultPart3Prompt)
	default:
		return pick(settings.MainPrompt, defaultMainPrompt)
	}
}

func formatLead(part Part) string {
	switch part {
	case PartIntro:
		return "The full article will follow the structure below. Keep this format in mind while writing the introduction:"
	case PartBody:
		return "Follow this structure for the main body of the article:"
	case PartConclusion:
		return "Write the conclusion according to this article format:"
	default:
		return "Structure the article using this format:"
	}
}

func recipeLead(part Part) string {
	switch part {
	case PartIntro:
		return "The article is a recipe. Keep this recipe format in mind while writing the introduction, but do not list the ingredients or steps yet:"
	case PartBody:
		return "The article is a recipe. Follow this recipe structure in the main body:"
	case PartConclusion:
		return "The article is a recipe. Write the conclusion according to this recipe format, and add the notes or tips section if it is still missing:"
	default:
		return "The article is a recipe. Use this recipe format:"
	}
}
