package recipe

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const amount = `(\d+(?:\.\d+)?)`

var (
	servingSizePattern = regexp.MustCompile(`(?i)\bserving\s+size:?\s*(\d+(?:\.\d+)?\s*(?:servings?|slices?|pieces?|cups?|bars?|g)\b)`)
	caloriesLeading    = regexp.MustCompile(`(?i)\bcalories:?\s*(\d+)`)
	caloriesTrailing   = regexp.MustCompile(`(?i)(\d+)\s*(?:k?cal|calories)\b`)

	fatPattern            = regexp.MustCompile(`(?i)\b(?:total\s+)?fat:?\s*` + amount + `\s*g\b`)
	saturatedFatPattern   = regexp.MustCompile(`(?i)\bsaturated\s+fat:?\s*` + amount + `\s*g\b`)
	unsaturatedFatPattern = regexp.MustCompile(`(?i)\bunsaturated\s+fat:?\s*` + amount + `\s*g\b`)
	transFatPattern       = regexp.MustCompile(`(?i)\btrans\s+fat:?\s*` + amount + `\s*g\b`)
	carbsPattern          = regexp.MustCompile(`(?i)\b(?:total\s+)?carb(?:ohydrate)?s?:?\s*` + amount + `\s*g\b`)
	proteinPattern        = regexp.MustCompile(`(?i)\bprotein:?\s*` + amount + `\s*g\b`)
	sugarPattern          = regexp.MustCompile(`(?i)\bsugars?:?\s*` + amount + `\s*g\b`)
	fiberPattern          = regexp.MustCompile(`(?i)\b(?:dietary\s+)?fib(?:er|re):?\s*` + amount + `\s*g\b`)
	sodiumPattern         = regexp.MustCompile(`(?i)\bsodium:?\s*` + amount + `\s*mg\b`)
	cholesterolPattern    = regexp.MustCompile(`(?i)\bcholesterol:?\s*` + amount + `\s*mg\b`)

	fatQualifiers = []string{"saturated", "unsaturated", "trans", "monounsaturated", "polyunsaturated"}
)

// extractNutrition 優先在營養區段內搜尋，找不到區段才用全文
func extractNutrition(doc *goquery.Document, text string) Nutrition {
	scope := text
	if section, ok := findSection(doc, nutritionHeading); ok {
		if t := nodesText(section.Nodes); t != "" {
			scope = t
		}
	}

	n := Nutrition{
		ServingSize:    firstGroup(servingSizePattern, scope),
		Calories:       firstGroup(caloriesLeading, scope),
		Sugar:          withUnit(firstGroup(sugarPattern, scope), "g"),
		Sodium:         withUnit(firstGroup(sodiumPattern, scope), "mg"),
		Fat:            withUnit(plainFat(scope), "g"),
		SaturatedFat:   withUnit(firstGroup(saturatedFatPattern, scope), "g"),
		UnsaturatedFat: withUnit(firstGroup(unsaturatedFatPattern, scope), "g"),
		TransFat:       withUnit(firstGroup(transFatPattern, scope), "g"),
		Carbohydrates:  withUnit(firstGroup(carbsPattern, scope), "g"),
		Fiber:          withUnit(firstGroup(fiberPattern, scope), "g"),
		Protein:        withUnit(firstGroup(proteinPattern, scope), "g"),
		Cholesterol:    withUnit(firstGroup(cholesterolPattern, scope), "mg"),
	}
	if n.Calories == "" {
		n.Calories = firstGroup(caloriesTrailing, scope)
	}

	if n.ServingSize == "" {
		n.ServingSize = DefaultServingSize
	}
	if n.Calories == "" {
		n.Calories = DefaultCalories
	}
	if n.Fat == "" {
		n.Fat = DefaultFat
	}
	if n.Carbohydrates == "" {
		n.Carbohydrates = DefaultCarbohydrates
	}
	if n.Protein == "" {
		n.Protein = DefaultProtein
	}
	return n
}

// plainFat 總脂肪，跳過前面帶有飽和、不飽和或反式修飾詞的比對
func plainFat(text string) string {
	for _, idx := range fatPattern.FindAllStringSubmatchIndex(text, -1) {
		before := strings.ToLower(strings.TrimSpace(text[:idx[0]]))
		qualified := false
		for _, q := range fatQualifiers {
			if strings.HasSuffix(before, q) {
				qualified = true
				break
			}
		}
		if !qualified {
			return text[idx[2]:idx[3]]
		}
	}
	return ""
}

func firstGroup(pattern *regexp.Regexp, text string) string {
	m := pattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func withUnit(value, unit string) string {
	if value == "" {
		return ""
	}
	return value + unit
}
