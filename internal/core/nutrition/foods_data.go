package nutrition

// FoodDefinition describes one dictionary entry. PerHundred is the nutrient
// vector per 100g (100ml for drinks). Composite dishes list Components as
// canonical-name to grams; their own PerHundred is a fallback used only when
// every component is unknown.
type FoodDefinition struct {
	Name       string             `json:"name"`
	PerHundred Nutrients          `json:"per_100"`
	Aliases    []string           `json:"aliases"`
	Category   string             `json:"category"`
	Components map[string]float64 `json:"components,omitempty"`
}

// seedFoods is the built-in Vietnamese food dictionary.
func seedFoods() []FoodDefinition {
	return []FoodDefinition{
		{
			Name:       "cơm trắng",
			PerHundred: Nutrients{Calories: 130, Carbs: 28.2, Sugar: 0.1, Protein: 2.7, Fat: 0.3, Fiber: 0.4},
			Aliases:    []string{"com trang", "cơm", "com", "rice", "cơm tẻ", "com te"},
			Category:   "rice",
		},
		{
			Name:       "cơm sườn",
			PerHundred: Nutrients{Calories: 180, Carbs: 25, Sugar: 1, Protein: 8, Fat: 6, Fiber: 0.5},
			Aliases:    []string{"com suon", "cơm sườn nướng", "com suon nuong", "rice with pork chop"},
			Category:   "combo",
			Components: map[string]float64{"cơm trắng": 200, "sườn nướng": 120, "đồ chua": 30},
		},
		{
			Name:       "sườn nướng",
			PerHundred: Nutrients{Calories: 250, Carbs: 5, Sugar: 2, Protein: 25, Fat: 15},
			Aliases:    []string{"suon nuong", "sườn", "suon", "pork chop", "sườn heo nướng"},
			Category:   "meat",
		},
		{
			Name:       "thịt bò",
			PerHundred: Nutrients{Calories: 250, Protein: 26, Fat: 15},
			Aliases:    []string{"thit bo", "bò", "bo", "beef", "thịt", "thit"},
			Category:   "meat",
		},
		{
			Name:       "thịt kho",
			PerHundred: Nutrients{Calories: 220, Carbs: 5, Sugar: 3, Protein: 20, Fat: 12},
			Aliases:    []string{"thit kho", "thịt kho tàu", "thit kho tau", "braised pork"},
			Category:   "meat",
		},
		{
			Name:       "trứng chiên",
			PerHundred: Nutrients{Calories: 196, Carbs: 1.1, Sugar: 0.3, Protein: 13.6, Fat: 15},
			Aliases:    []string{"trung chien", "trứng", "trung", "egg", "trứng rán", "trung ran", "trứng ốp la"},
			Category:   "egg",
		},
		{
			Name:       "trứng luộc",
			PerHundred: Nutrients{Calories: 155, Carbs: 1.1, Sugar: 0.3, Protein: 13, Fat: 11},
			Aliases:    []string{"trung luoc", "trứng chín", "trung chin", "boiled egg"},
			Category:   "egg",
		},
		{
			Name:       "phở bò",
			PerHundred: Nutrients{Calories: 85, Carbs: 12, Sugar: 1, Protein: 6, Fat: 2, Fiber: 0.5},
			Aliases:    []string{"pho bo", "phở", "pho", "beef noodle soup", "phở tái", "pho tai"},
			Category:   "noodle",
		},
		{
			Name:       "bún chả",
			PerHundred: Nutrients{Calories: 110, Carbs: 18, Sugar: 3, Protein: 8, Fat: 2, Fiber: 1},
			Aliases:    []string{"bun cha", "bún", "bun", "vermicelli with grilled pork"},
			Category:   "noodle",
		},
		{
			Name:       "bún bò huế",
			PerHundred: Nutrients{Calories: 95, Carbs: 14, Sugar: 1, Protein: 7, Fat: 2, Fiber: 0.5},
			Aliases:    []string{"bun bo hue", "bún bò", "bun bo", "hue beef noodle"},
			Category:   "noodle",
		},
		{
			Name:       "bún đậu mắm tôm",
			PerHundred: Nutrients{Calories: 190, Carbs: 25, Sugar: 3, Protein: 10, Fat: 7, Fiber: 2},
			Aliases:    []string{"bun dau mam tom", "bun dau", "bún đậu"},
			Category:   "combo",
		},
		{
			Name:       "mì tôm",
			PerHundred: Nutrients{Calories: 380, Carbs: 60, Sugar: 2, Protein: 10, Fat: 12, Fiber: 2},
			Aliases:    []string{"mi tom", "mì gói", "mi goi", "instant noodle"},
			Category:   "snack",
		},
		{
			Name:       "bánh mì",
			PerHundred: Nutrients{Calories: 250, Carbs: 40, Sugar: 2, Protein: 8, Fat: 6, Fiber: 2},
			Aliases:    []string{"banh mi", "bánh", "banh", "bread", "bánh mì sandwich"},
			Category:   "bread",
		},
		{
			Name:       "bánh bao",
			PerHundred: Nutrients{Calories: 220, Carbs: 40, Sugar: 5, Protein: 8, Fat: 4, Fiber: 2},
			Aliases:    []string{"banh bao", "bánh bao nhân thịt"},
			Category:   "snack",
		},
		{
			Name:       "bánh xèo",
			PerHundred: Nutrients{Calories: 180, Carbs: 25, Sugar: 1, Protein: 6, Fat: 8, Fiber: 1},
			Aliases:    []string{"banh xeo", "bánh xèo tôm thịt"},
			Category:   "cake",
		},
		{
			Name:       "gỏi cuốn",
			PerHundred: Nutrients{Calories: 80, Carbs: 12, Sugar: 1, Protein: 5, Fat: 1, Fiber: 1},
			Aliases:    []string{"goi cuon", "spring roll"},
			Category:   "roll",
		},
		{
			Name:       "chả giò",
			PerHundred: Nutrients{Calories: 220, Carbs: 20, Sugar: 1, Protein: 8, Fat: 12, Fiber: 1},
			Aliases:    []string{"cha gio", "nem rán", "nem ran"},
			Category:   "fried",
		},
		{
			Name:       "cơm tấm",
			PerHundred: Nutrients{Calories: 160, Carbs: 26, Sugar: 1, Protein: 9, Fat: 4, Fiber: 0.6},
			Aliases:    []string{"com tam", "cơm tấm sườn", "com tam suon"},
			Category:   "rice",
		},
		{
			Name:       "cơm gạo lứt",
			PerHundred: Nutrients{Calories: 110, Carbs: 23, Sugar: 0.5, Protein: 2.6, Fat: 0.9, Fiber: 1.8},
			Aliases:    []string{"gao lut", "com gao lut", "brown rice"},
			Category:   "rice",
		},
		{
			Name:       "cháo",
			PerHundred: Nutrients{Calories: 70, Carbs: 15, Sugar: 0.5, Protein: 2, Fat: 0.5, Fiber: 0.5},
			Aliases:    []string{"chao", "porridge", "cháo trắng"},
			Category:   "carb",
		},
		{
			Name:       "cá chiên",
			PerHundred: Nutrients{Calories: 180, Carbs: 2, Protein: 22, Fat: 9},
			Aliases:    []string{"ca chien", "cá rán", "ca ran", "fried fish"},
			Category:   "fish",
		},
		{
			Name:       "cá kho tộ",
			PerHundred: Nutrients{Calories: 150, Carbs: 5, Sugar: 3, Protein: 18, Fat: 6, Fiber: 0.5},
			Aliases:    []string{"ca kho to", "cá kho", "ca kho"},
			Category:   "fish",
		},
		{
			Name:       "gà nướng",
			PerHundred: Nutrients{Calories: 215, Protein: 27, Fat: 11},
			Aliases:    []string{"ga nuong", "grilled chicken", "gà quay"},
			Category:   "meat",
		},
		{
			Name:       "ức gà",
			PerHundred: Nutrients{Calories: 165, Protein: 31, Fat: 3.6},
			Aliases:    []string{"uc ga", "thịt ức gà", "thit uc ga", "chicken breast"},
			Category:   "meat",
		},
		{
			Name:       "bò lúc lắc",
			PerHundred: Nutrients{Calories: 180, Carbs: 8, Sugar: 2, Protein: 20, Fat: 8, Fiber: 0.5},
			Aliases:    []string{"bo luc lac", "thịt bò lúc lắc", "thit bo luc lac"},
			Category:   "meat",
		},
		{
			Name:       "rau luộc",
			PerHundred: Nutrients{Calories: 25, Carbs: 4, Sugar: 1, Protein: 2, Fat: 0.2, Fiber: 2.5},
			Aliases:    []string{"rau xanh", "rau luoc", "luoc rau"},
			Category:   "vegetable",
		},
		{
			Name:       "khoai lang",
			PerHundred: Nutrients{Calories: 86, Carbs: 20, Sugar: 4, Protein: 1.6, Fat: 0.1, Fiber: 3},
			Aliases:    []string{"sweet potato"},
			Category:   "vegetable",
		},
		{
			Name:       "canh rau",
			PerHundred: Nutrients{Calories: 35, Carbs: 6, Sugar: 1.5, Protein: 2, Fat: 0.5, Fiber: 1.5},
			Aliases:    []string{"canh rau xanh", "canh", "sup rau", "canh cai"},
			Category:   "soup",
		},
		{
			Name:       "canh chua cá lóc",
			PerHundred: Nutrients{Calories: 70, Carbs: 5, Sugar: 2, Protein: 8, Fat: 2, Fiber: 1},
			Aliases:    []string{"canh chua", "canh chua ca loc", "canh chua ca"},
			Category:   "soup",
		},
		{
			Name:       "đồ chua",
			PerHundred: Nutrients{Calories: 30, Carbs: 7, Sugar: 5, Protein: 0.5, Fat: 0.1, Fiber: 1.2},
			Aliases:    []string{"do chua", "dưa chua", "dua chua", "pickles"},
			Category:   "vegetable",
		},
		{
			Name:       "chuối",
			PerHundred: Nutrients{Calories: 89, Carbs: 23, Sugar: 12, Protein: 1.1, Fat: 0.3, Fiber: 2.6},
			Aliases:    []string{"chuoi", "banana"},
			Category:   "fruit",
		},
		{
			Name:       "cà phê sữa",
			PerHundred: Nutrients{Calories: 120, Carbs: 20, Sugar: 18, Protein: 2, Fat: 3},
			Aliases:    []string{"ca phe sua", "cafe sữa", "cafe sua", "coffee with milk"},
			Category:   "drink",
		},
		{
			Name:       "cà phê đen",
			PerHundred: Nutrients{Calories: 1, Protein: 0.2},
			Aliases:    []string{"ca phe den", "cafe den", "black coffee", "cà phê đá", "ca phe da", "đen đá", "den da", "cafe", "coffee"},
			Category:   "drink",
		},
		{
			Name:       "nước cam",
			PerHundred: Nutrients{Calories: 45, Carbs: 10, Sugar: 8, Protein: 0.7, Fat: 0.2, Fiber: 0.2},
			Aliases:    []string{"nuoc cam", "nước cam ép", "nuoc cam ep", "orange juice"},
			Category:   "drink",
		},
		{
			Name:       "nước mía",
			PerHundred: Nutrients{Calories: 65, Carbs: 16, Sugar: 15},
			Aliases:    []string{"nuoc mia", "sugarcane juice"},
			Category:   "drink",
		},
		{
			Name:       "nước chanh",
			PerHundred: Nutrients{Calories: 25, Carbs: 6, Sugar: 5},
			Aliases:    []string{"nuoc chanh", "lemonade"},
			Category:   "drink",
		},
		{
			Name:       "sinh tố xoài",
			PerHundred: Nutrients{Calories: 60, Carbs: 14, Sugar: 10, Protein: 1, Fiber: 1},
			Aliases:    []string{"sinh to xoai", "mango smoothie"},
			Category:   "drink",
		},
		{
			Name:       "trà đá",
			PerHundred: Nutrients{Calories: 1},
			Aliases:    []string{"tra da", "trà", "tra"},
			Category:   "drink",
		},
	}
}
