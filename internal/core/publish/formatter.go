package publish

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"seo-content-generator/internal/pkg/common"

	"go.uber.org/zap"
)

const blockMarker = "<!-- wp:"

type blockRule struct {
	pattern *regexp.Regexp
	open    string
	close   string
}

var (
	htmlTagPattern   = regexp.MustCompile(`<[^>]+>`)
	blankLinePattern = regexp.MustCompile(`\n\s*\n`)
	headingPattern   = regexp.MustCompile(`(?s)^(#{1,3})([^#].*)$`)

	blockRules = []blockRule{
		{regexp.MustCompile(`(?is)<h2(?:\s[^>]*)?>.*?</h2>`), "<!-- wp:heading -->", "<!-- /wp:heading -->"},
		{regexp.MustCompile(`(?is)<h3(?:\s[^>]*)?>.*?</h3>`), `<!-- wp:heading {"level":3} -->`, "<!-- /wp:heading -->"},
		{regexp.MustCompile(`(?is)<p(?:\s[^>]*)?>.*?</p>`), "<!-- wp:paragraph -->", "<!-- /wp:paragraph -->"},
		{regexp.MustCompile(`(?is)<ul(?:\s[^>]*)?>.*?</ul>`), "<!-- wp:list -->", "<!-- /wp:list -->"},
		{regexp.MustCompile(`(?is)<ol(?:\s[^>]*)?>.*?</ol>`), `<!-- wp:list {"ordered":true} -->`, "<!-- /wp:list -->"},
	}
)

// ToBlocks 將 HTML 轉為 WordPress 區塊格式，非字串輸入只做字串化，失敗時回傳原文
func ToBlocks(input any) (out string) {
	var raw string
	defer func() {
		if r := recover(); r != nil {
			common.LogWarn("Block formatting failed, returning original content", zap.Any("panic", r))
			if raw == "" {
				raw = fmt.Sprint(input)
			}
			out = raw
		}
	}()

	raw, isString := stringify(input)
	if !isString {
		return raw
	}

	if strings.TrimSpace(raw) == "" || strings.Contains(raw, blockMarker) {
		return raw
	}
	if htmlTagPattern.MatchString(raw) {
		return wrapElements(raw)
	}
	return wrapMarkdown(raw)
}

// wrapElements 單次替換，不處理巢狀清單
func wrapElements(content string) string {
	for _, rule := range blockRules {
		content = rule.pattern.ReplaceAllStringFunc(content, func(m string) string {
			return rule.open + "\n" + m + "\n" + rule.close
		})
	}
	return content
}

func wrapMarkdown(content string) string {
	var blocks []string
	for _, para := range blankLinePattern.Split(content, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		blocks = append(blocks, markdownBlock(para))
	}
	return strings.Join(blocks, "\n\n")
}

// markdownBlock 以 #、##、### 前綴判斷標題，前綴後不需空白
func markdownBlock(para string) string {
	if m := headingPattern.FindStringSubmatch(para); m != nil && strings.TrimSpace(m[2]) != "" {
		return headingBlock(len(m[1]), m[2])
	}
	return "<!-- wp:paragraph -->\n<p>" + html.EscapeString(para) + "</p>\n<!-- /wp:paragraph -->"
}

func headingBlock(level int, text string) string {
	text = html.EscapeString(strings.TrimSpace(text))
	if level == 2 {
		return fmt.Sprintf("<!-- wp:heading -->\n<h2>%s</h2>\n<!-- /wp:heading -->", text)
	}
	return fmt.Sprintf("<!-- wp:heading {\"level\":%d} -->\n<h%d>%s</h%d>\n<!-- /wp:heading -->", level, level, text, level)
}

func stringify(input any) (string, bool) {
	switch v := input.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return fmt.Sprint(v), false
	}
}
