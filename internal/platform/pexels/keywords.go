package pexels

import "strings"

// foodWords is the curated dictionary of food terms a photo query may be
// built from. Scanned in order; the first match wins.
var foodWords = []string{
	"pasta", "chicken", "beef", "pork", "fish", "salmon", "tuna", "shrimp",
	"rice", "noodles", "soup", "salad", "pizza", "burger", "sandwich",
	"steak", "tacos", "burrito", "curry", "stir fry", "roast", "grilled",
	"baked", "fried", "spaghetti", "lasagna", "risotto", "paella",
	"sushi", "ramen", "pho", "pie", "cake", "bread", "cookies",
	"vegetables", "potatoes", "beans", "lentils", "quinoa", "tofu",
	"eggs", "omelette", "pancakes", "waffles", "meatballs", "chili",
	"carbonara", "alfredo", "marinara", "pesto", "bolognese",
	"teriyaki", "pad thai", "penne", "fettuccine", "ravioli",
	"kebab", "fajitas", "enchiladas", "quesadilla", "nachos", "wings",
	"ribs", "bacon", "sausage", "ham", "turkey", "duck", "lamb",
	"crab", "lobster", "scallops", "oysters", "mussels",
	"broccoli", "spinach", "kale", "carrots", "mushrooms", "peppers",
	"tomato", "onion", "garlic", "ginger", "avocado", "asparagus",
}

// stopWords are non-food descriptive words removed from a title before the
// dictionary scan.
var stopWords = map[string]struct{}{
	"recipe": {}, "easy": {}, "quick": {}, "delicious": {}, "homemade": {},
	"simple": {}, "best": {}, "perfect": {}, "classic": {}, "traditional": {},
	"gordon": {}, "ramsay": {}, "chef": {}, "mom": {}, "grandma": {},
	"authentic": {}, "amazing": {}, "incredible": {}, "ultimate": {},
	"favorite": {}, "world": {}, "famous": {}, "style": {},
	"the": {}, "a": {}, "an": {},
}

// ExtractFoodKeywords derives a photo-search query from a recipe title: the
// first recognized food term plus one token of context on each side. A
// title with no recognized food word yields ok == false and must not be
// searched at all.
func ExtractFoodKeywords(title string) (string, bool) {
	clean := strings.ReplaceAll(strings.ToLower(title), "'s", "")

	var tokens []string
	for _, tok := range strings.Fields(clean) {
		if _, drop := stopWords[tok]; !drop {
			tokens = append(tokens, tok)
		}
	}
	joined := strings.Join(tokens, " ")

	for _, foodWord := range foodWords {
		if !strings.Contains(joined, foodWord) {
			continue
		}
		for i, tok := range tokens {
			if strings.Contains(tok, foodWord) {
				start := max(0, i-1)
				end := min(len(tokens), i+2)
				return strings.Join(tokens[start:end], " "), true
			}
		}
	}

	return "", false
}
