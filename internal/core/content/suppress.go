package content

import (
	"fmt"
	"regexp"
	"strings"

	"seo-content-generator/internal/pkg/common"
)

// Replacement 被移除詞彙的替代字串
const Replacement = "[alternative]"

var avoidTokenPattern = regexp.MustCompile(`\s*(?:"([^"]*)"|'([^']*)'|([^,]+))`)

// ParseAvoidTerms 解析「避免使用」清單，支援 JSON 陣列或逗號分隔（可加引號）
func ParseAvoidTerms(spec string) []string {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		var items []any
		if err := common.ParseJSON(trimmed, &items); err == nil {
			terms := make([]string, 0, len(items))
			for _, item := range items {
				if item == nil {
					continue
				}
				terms = appendTerm(terms, fmt.Sprint(item))
			}
			return terms
		}
	}

	var terms []string
	for _, m := range avoidTokenPattern.FindAllStringSubmatch(trimmed, -1) {
		token := m[3]
		switch {
		case m[1] != "":
			token = m[1]
		case m[2] != "":
			token = m[2]
		}
		terms = appendTerm(terms, token)
	}
	return terms
}

func appendTerm(terms []string, raw string) []string {
	term := strings.ToLower(strings.TrimSpace(raw))
	if term == "" {
		return terms
	}
	return append(terms, term)
}

// Suppress 以整字、不分大小寫的方式把清單中的詞彙替換為 Replacement
func Suppress(text, avoidSpec string) string {
	return SuppressTerms(text, ParseAvoidTerms(avoidSpec))
}

// SuppressTerms 依序套用已解析的詞彙
func SuppressTerms(text string, terms []string) string {
	for _, term := range terms {
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		text = pattern.ReplaceAllLiteralString(text, Replacement)
	}
	return text
}

// CountWords 以空白切分計算字數，HTML 標籤不先移除
func CountWords(text string) int {
	return len(strings.Fields(text))
}
