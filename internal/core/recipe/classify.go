package recipe

import (
	"fmt"
	"regexp"
	"strings"
)

// label 一個分類標籤與其觸發詞
type label struct {
	name    string
	pattern *regexp.Regexp
}

func newLabel(name string, terms ...string) label {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return label{
		name:    name,
		pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
	}
}

// 依序檢查，先命中者勝出
var (
	categories = []label{
		newLabel("Breakfast", "breakfast", "brunch", "pancake", "pancakes", "waffle", "waffles", "omelet", "omelette", "granola"),
		newLabel("Appetizer", "appetizer", "appetizers", "starter", "finger food", "dip"),
		newLabel("Main Course", "main course", "main dish", "entree", "dinner", "lunch"),
		newLabel("Dessert", "dessert", "desserts", "cake", "cookie", "cookies", "brownie", "brownies", "pie", "pudding", "ice cream"),
		newLabel("Side Dish", "side dish", "side dishes", "side"),
		newLabel("Soup", "soup", "soups", "stew", "chowder", "bisque", "broth"),
		newLabel("Salad", "salad", "salads", "slaw"),
		newLabel("Drink", "drink", "drinks", "beverage", "smoothie", "cocktail", "juice", "lemonade", "latte"),
	}

	methods = []label{
		newLabel("Baking", "bake", "baked", "baking", "oven"),
		newLabel("Boiling", "boil", "boiled", "boiling"),
		newLabel("Grilling", "grill", "grilled", "grilling", "barbecue", "bbq"),
		newLabel("Slow Cooking", "slow cooker", "slow cook", "slow-cooked", "crock pot", "crockpot"),
		newLabel("Pressure Cooking", "pressure cooker", "pressure cook", "instant pot"),
		newLabel("Steaming", "steam", "steamed", "steaming"),
		newLabel("Frying", "fry", "fried", "frying", "deep-fry", "pan-fry", "saute"),
		newLabel("No-Cook", "no-cook", "no cook", "no-bake", "no bake", "raw"),
	}

	cuisines = []label{
		newLabel("Italian", "italian", "pasta", "pizza", "risotto", "lasagna", "parmesan", "pesto"),
		newLabel("Mexican", "mexican", "taco", "tacos", "burrito", "enchilada", "salsa", "tortilla", "guacamole"),
		newLabel("Chinese", "chinese", "stir-fry", "stir fry", "wok", "dumpling", "dumplings", "soy sauce"),
		newLabel("Indian", "indian", "curry", "masala", "tikka", "naan", "garam masala", "dal"),
		newLabel("Japanese", "japanese", "sushi", "ramen", "miso", "teriyaki", "tempura"),
		newLabel("Thai", "thai", "pad thai", "lemongrass", "fish sauce"),
		newLabel("French", "french", "croissant", "baguette", "crepe", "ratatouille", "quiche"),
		newLabel("Mediterranean", "mediterranean", "greek", "hummus", "falafel", "feta", "tzatziki"),
		newLabel("American", "american", "burger", "burgers", "mac and cheese", "meatloaf", "cornbread"),
	}

	diets = []label{
		newLabel("Vegan", "vegan", "plant-based", "plant based"),
		newLabel("Vegetarian", "vegetarian", "meatless"),
		newLabel("Gluten-Free", "gluten-free", "gluten free"),
		newLabel("Dairy-Free", "dairy-free", "dairy free"),
		newLabel("Keto", "keto", "ketogenic"),
		newLabel("Paleo", "paleo"),
		newLabel("Low-Carb", "low-carb", "low carb"),
		newLabel("Kosher", "kosher"),
		newLabel("Halal", "halal"),
	}
)

// adjective 常見的食譜形容詞
type adjective struct {
	term    string
	pattern *regexp.Regexp
}

var commonAdjectives = func() []adjective {
	terms := []string{"homemade", "easy", "delicious", "quick", "healthy", "family", "dinner", "recipe", "best", "traditional"}
	out := make([]adjective, len(terms))
	for i, t := range terms {
		out[i] = adjective{term: t, pattern: regexp.MustCompile(`(?i)\b` + t + `\b`)}
	}
	return out
}()

var keywordHeadingExclude = regexp.MustCompile(`(?i)ingredients|instructions|steps|notes|tips`)

// classify 依序比對內容與關鍵字，回傳第一個命中的標籤
func classify(labels []label, text, keyword, fallback string) string {
	for _, l := range labels {
		if l.pattern.MatchString(text) || l.pattern.MatchString(keyword) {
			return l.name
		}
	}
	return fallback
}

var (
	timeUnit      = `(minutes?|mins?|hours?|hrs?)`
	numberRange   = `(\d+)(?:\s*(?:to|-)\s*(\d+))?`
	timePatterns  = map[string]*regexp.Regexp{}
	yieldLeading  = regexp.MustCompile(`(?i)\b(?:serves|servings|yield|yields|makes):?\s*` + numberRange)
	yieldTrailing = regexp.MustCompile(`(?i)` + numberRange + `\s+servings?\b`)
)

func init() {
	for _, kind := range []string{"prep", "cook", "total"} {
		timePatterns[kind] = regexp.MustCompile(`(?i)\b` + kind + `(?:ing)?\s*time:?\s*` + numberRange + `\s*` + timeUnit)
	}
}

// extractTime 搜尋「<type> time: N minutes」，支援範圍
func extractTime(text, kind, fallback string) string {
	pattern, ok := timePatterns[kind]
	if !ok {
		return fallback
	}
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return fallback
	}
	return formatRange(m[1], m[2]) + " " + normalizeUnit(m[3])
}

func extractYield(text string) string {
	m := yieldLeading.FindStringSubmatch(text)
	if m == nil {
		m = yieldTrailing.FindStringSubmatch(text)
	}
	if m == nil {
		return DefaultYield
	}
	return formatRange(m[1], m[2]) + " servings"
}

func formatRange(from, to string) string {
	if to == "" {
		return from
	}
	return fmt.Sprintf("%s-%s", from, to)
}

func normalizeUnit(unit string) string {
	if strings.HasPrefix(strings.ToLower(unit), "h") {
		return "hours"
	}
	return "minutes"
}
