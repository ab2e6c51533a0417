package recipe

// Data 從文章萃取出的食譜資料，每個欄位都有預設值
type Data struct {
	Description  string    `json:"description"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	Notes        string    `json:"notes"`
	Details      Details   `json:"details"`
	Keywords     string    `json:"keywords"`
	Nutrition    Nutrition `json:"nutrition"`
}

// Details 時間、份量與分類
type Details struct {
	PrepTime  string `json:"prepTime"`
	CookTime  string `json:"cookTime"`
	TotalTime string `json:"totalTime"`
	Yield     string `json:"yield"`
	Category  string `json:"category"`
	Method    string `json:"method"`
	Cuisine   string `json:"cuisine"`
	Diet      string `json:"diet"`
}

// Nutrition 營養資訊，未找到的欄位為空字串
type Nutrition struct {
	ServingSize    string `json:"servingSize"`
	Calories       string `json:"calories"`
	Sugar          string `json:"sugar"`
	Sodium         string `json:"sodium"`
	Fat            string `json:"fat"`
	SaturatedFat   string `json:"saturatedFat"`
	UnsaturatedFat string `json:"unsaturatedFat"`
	TransFat       string `json:"transFat"`
	Carbohydrates  string `json:"carbohydrates"`
	Fiber          string `json:"fiber"`
	Protein        string `json:"protein"`
	Cholesterol    string `json:"cholesterol"`
}

// 預設值
const (
	DefaultPrepTime  = "15 minutes"
	DefaultCookTime  = "30 minutes"
	DefaultTotalTime = "45 minutes"
	DefaultYield     = "4 servings"
	DefaultCategory  = "Main Course"
	DefaultMethod    = "Cooking"
	DefaultCuisine   = "American"

	DefaultServingSize   = "1 serving"
	DefaultCalories      = "250"
	DefaultFat           = "10g"
	DefaultCarbohydrates = "30g"
	DefaultProtein       = "15g"

	placeholderIngredients  = "<ul>\n<li>2 cups main ingredient</li>\n<li>1 tablespoon olive oil</li>\n<li>1 teaspoon salt</li>\n</ul>"
	placeholderInstructions = "<ol>\n<li>Prepare and measure all ingredients.</li>\n<li>Cook the ingredients following the steps described above.</li>\n<li>Serve warm and enjoy.</li>\n</ol>"
	placeholderNotes        = "<ul>\n<li>Adjust the seasoning to taste before serving.</li>\n</ul>"

	descriptionFallback = "A delicious %s recipe that's easy to make at home."
)
