package recipe

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"seo-content-generator/internal/pkg/common"
	"seo-content-generator/internal/pkg/metrics"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// indicatorTerms 判斷內容是否為食譜的關鍵詞
var indicatorTerms = []string{
	"ingredients", "instructions", "preparation", "minutes", "cook time",
	"prep time", "servings", "recipe", "tablespoon", "teaspoon",
	"cup", "bake", "fry", "boil", "simmer",
}

const (
	minIndicatorHits = 3
	maxDescription   = 300
	shortParagraph   = 50
	sectionBoundary  = "h1, h2, h3"
	headingSelector  = "h1, h2, h3, h4, h5, h6"
)

var (
	ingredientsHeading  = regexp.MustCompile(`(?i)ingredients`)
	instructionsHeading = regexp.MustCompile(`(?i)instructions|directions|method|steps|how to`)
	notesHeading        = regexp.MustCompile(`(?i)notes|tips|additional|advice`)
	nutritionHeading    = regexp.MustCompile(`(?i)nutrition|nutritional|nutrients`)

	measurementPattern = regexp.MustCompile(`(?i)cup|teaspoon|tablespoon|ounce|pound`)
	lineBreakPattern   = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>|</li>|\n`)
	stepNumberPattern  = regexp.MustCompile(`^\d+[.)]\s*`)
)

// IsRecipe 至少命中三個指標詞才視為食譜
func IsRecipe(content string) bool {
	lower := strings.ToLower(content)
	hits := 0
	for _, term := range indicatorTerms {
		if strings.Contains(lower, term) {
			hits++
			if hits >= minIndicatorHits {
				return true
			}
		}
	}
	return false
}

// Extract 從文章 HTML 萃取食譜資料，非食譜內容回傳 nil
func Extract(content, keyword string) *Data {
	if !IsRecipe(content) {
		metrics.RecipeExtractionTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		common.LogWarn("Failed to parse article HTML, using fallbacks", zap.Error(err))
		doc = goquery.NewDocumentFromNode(&xhtml.Node{Type: xhtml.DocumentNode})
	}

	text := nodesText(doc.Nodes)
	data := &Data{
		Description:  extractDescription(doc, keyword),
		Ingredients:  extractIngredients(doc),
		Instructions: extractInstructions(doc),
		Notes:        extractNotes(doc),
		Details: Details{
			PrepTime:  extractTime(text, "prep", DefaultPrepTime),
			CookTime:  extractTime(text, "cook", DefaultCookTime),
			TotalTime: extractTime(text, "total", DefaultTotalTime),
			Yield:     extractYield(text),
			Category:  classify(categories, text, keyword, DefaultCategory),
			Method:    classify(methods, text, keyword, DefaultMethod),
			Cuisine:   classify(cuisines, text, keyword, DefaultCuisine),
			Diet:      classify(diets, text, keyword, ""),
		},
		Keywords:  extractKeywords(doc, text, keyword),
		Nutrition: extractNutrition(doc, text),
	}

	metrics.RecipeExtractionTotal.WithLabelValues("extracted").Inc()
	common.LogDebug("Recipe data extracted",
		zap.String("keyword", keyword),
		zap.String("category", data.Details.Category),
		zap.String("cuisine", data.Details.Cuisine),
	)
	return data
}

// findSection 找到第一個符合的標題，回傳其後直到下一個 h1-h3 的兄弟節點
func findSection(doc *goquery.Document, pattern *regexp.Regexp) (*goquery.Selection, bool) {
	var section *goquery.Selection
	doc.Find(headingSelector).EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if pattern.MatchString(h.Text()) {
			section = h.NextUntil(sectionBoundary)
			return false
		}
		return true
	})
	return section, section != nil
}

// firstList 區段中第一個指定的清單（本身或其子孫）
func firstList(section *goquery.Selection, tag string) string {
	list := section.Filter(tag).First()
	if list.Length() == 0 {
		list = section.Find(tag).First()
	}
	if list.Length() == 0 {
		return ""
	}
	out, err := goquery.OuterHtml(list)
	if err != nil {
		return ""
	}
	return out
}

// sectionLines 依 <br> 與段落切出區段中的文字行
func sectionLines(section *goquery.Selection) []string {
	var raw strings.Builder
	section.Each(func(_ int, s *goquery.Selection) {
		if out, err := goquery.OuterHtml(s); err == nil {
			raw.WriteString(out)
			raw.WriteString("\n")
		}
	})

	var lines []string
	for _, piece := range lineBreakPattern.Split(raw.String(), -1) {
		if line := stripTags(piece); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// paragraphs 區段中每個 <p> 的文字
func paragraphs(section *goquery.Selection) []string {
	var out []string
	section.Filter("p").AddSelection(section.Find("p")).Each(func(_ int, p *goquery.Selection) {
		if t := collapse(p.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func buildList(tag string, items []string) string {
	var b strings.Builder
	b.WriteString("<" + tag + ">\n")
	for _, item := range items {
		b.WriteString("<li>")
		b.WriteString(html.EscapeString(item))
		b.WriteString("</li>\n")
	}
	b.WriteString("</" + tag + ">")
	return b.String()
}

func extractDescription(doc *goquery.Document, keyword string) string {
	ps := doc.Find("p")
	if ps.Length() == 0 {
		return fmt.Sprintf(descriptionFallback, keyword)
	}

	desc := collapse(ps.First().Text())
	if utf8.RuneCountInString(desc) < shortParagraph && ps.Length() > 1 {
		desc = collapse(ps.Eq(1).Text())
	}
	if desc == "" {
		return fmt.Sprintf(descriptionFallback, keyword)
	}

	if utf8.RuneCountInString(desc) > maxDescription {
		runes := []rune(desc)
		desc = strings.TrimSpace(string(runes[:maxDescription])) + "..."
	}
	return desc
}

func extractIngredients(doc *goquery.Document) string {
	if section, ok := findSection(doc, ingredientsHeading); ok {
		if list := firstList(section, "ul"); list != "" {
			return list
		}
		if lines := sectionLines(section); len(lines) > 0 {
			return buildList("ul", lines)
		}
	}

	var found string
	doc.Find("ul").EachWithBreak(func(_ int, ul *goquery.Selection) bool {
		if measurementPattern.MatchString(ul.Text()) {
			found, _ = goquery.OuterHtml(ul)
			return false
		}
		return true
	})
	if found != "" {
		return found
	}
	return placeholderIngredients
}

func extractInstructions(doc *goquery.Document) string {
	if section, ok := findSection(doc, instructionsHeading); ok {
		if list := firstList(section, "ol"); list != "" {
			return list
		}
		var steps []string
		for _, p := range paragraphs(section) {
			if step := strings.TrimSpace(stepNumberPattern.ReplaceAllString(p, "")); step != "" {
				steps = append(steps, step)
			}
		}
		if len(steps) > 0 {
			return buildList("ol", steps)
		}
	}

	var longest *goquery.Selection
	doc.Find("ol").Each(func(_ int, ol *goquery.Selection) {
		if longest == nil || ol.ChildrenFiltered("li").Length() > longest.ChildrenFiltered("li").Length() {
			longest = ol
		}
	})
	if longest != nil {
		if out, err := goquery.OuterHtml(longest); err == nil {
			return out
		}
	}
	return placeholderInstructions
}

func extractNotes(doc *goquery.Document) string {
	if section, ok := findSection(doc, notesHeading); ok {
		if list := firstList(section, "ul"); list != "" {
			return list
		}
		if ps := paragraphs(section); len(ps) > 0 {
			return buildList("ul", ps)
		}
	}
	return placeholderNotes
}

// extractKeywords 關鍵字、標題與常見形容詞，依既有字串去重
func extractKeywords(doc *goquery.Document, text, keyword string) string {
	joined := strings.TrimSpace(keyword)
	add := func(term string) {
		term = collapse(term)
		if term == "" || strings.Contains(strings.ToLower(joined), strings.ToLower(term)) {
			return
		}
		joined += ", " + term
	}

	doc.Find("h2, h3").Each(func(_ int, h *goquery.Selection) {
		heading := h.Text()
		if !keywordHeadingExclude.MatchString(heading) {
			add(heading)
		}
	})

	for _, adj := range commonAdjectives {
		if adj.pattern.MatchString(text) {
			add(adj.term)
		}
	}

	return strings.TrimLeft(strings.TrimPrefix(joined, ","), " ")
}

// nodesText 以空白串接所有文字節點
func nodesText(nodes []*xhtml.Node) string {
	var parts []string
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return collapse(strings.Join(parts, " "))
}

func stripTags(fragment string) string {
	nodes, err := xhtml.ParseFragment(strings.NewReader(fragment), &xhtml.Node{
		Type:     xhtml.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return ""
	}
	return nodesText(nodes)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
