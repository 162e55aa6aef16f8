package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ingredient categories used to group the scanned snapshot.
const (
	CategoryVegetables    = "Vegetables"
	CategoryCarbohydrates = "Carbohydrates"
	CategoryProtein       = "Protein"
	CategoryDairy         = "Dairy"
)

var (
	errMissingIngredientName     = errors.New("ingredient is missing a name")
	errMissingRecipeTitle        = errors.New("recipe is missing a title")
	errMissingRecipeIngredients  = errors.New("recipe is missing its ingredient list")
	errMissingRecipeInstructions = errors.New("recipe is missing its instructions")
)

// Ingredient is a single food item, either detected in a fridge photo or
// entered manually by the user.
type Ingredient struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  string `json:"quantity,omitempty"`
	Category  string `json:"category,omitempty"`
	Confirmed bool   `json:"confirmed"`
}

// UnmarshalJSON decodes an ingredient leniently: name is required, every
// other field falls back to a default instead of failing the decode.
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	name := stringOr(fields["name"], "")
	if name == "" {
		return errMissingIngredientName
	}

	i.Name = name
	i.ID = stringOr(fields["id"], "")
	i.Quantity = stringOr(fields["quantity"], "")
	i.Category = stringOr(fields["category"], "")
	i.Confirmed = boolOr(fields["confirmed"], false)

	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Recipe is a generated dish. Saved and ImageURL are the only fields that
// change after generation, and only through the store.
type Recipe struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	CookingTime  string    `json:"estimated_time,omitempty"`
	Difficulty   string    `json:"difficulty,omitempty"`
	Servings     int       `json:"servings,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Saved        bool      `json:"saved"`
	ImageURL     string    `json:"imageURL,omitempty"`
}

// UnmarshalJSON decodes a recipe. Title, the ingredient list and the
// instructions are required; the remaining fields fall back to defaults.
// The model sometimes returns estimated_time as a bare integer; that form
// is rewritten to "N minutes".
func (r *Recipe) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	title := stringOr(fields["title"], "")
	if title == "" {
		return errMissingRecipeTitle
	}

	r.Title = title
	r.ID = stringOr(fields["id"], "")
	r.Ingredients = stringsOr(fields["ingredients"])
	if r.Ingredients == nil {
		return errMissingRecipeIngredients
	}
	r.Instructions = stringsOr(fields["instructions"])
	if r.Instructions == nil {
		return errMissingRecipeInstructions
	}
	r.CookingTime = minutesOr(fields["estimated_time"], "")
	r.Difficulty = stringOr(fields["difficulty"], "")
	r.Servings = intOr(fields["servings"], 0)
	r.CreatedAt = timeOr(fields["createdAt"], time.Time{})
	r.Saved = boolOr(fields["saved"], false)
	r.ImageURL = stringOr(fields["imageURL"], "")

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return nil
}

func stringOr(raw json.RawMessage, def string) string {
	if raw == nil {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return def
	}
	return s
}

func stringsOr(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

func boolOr(raw json.RawMessage, def bool) bool {
	if raw == nil {
		return def
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return def
	}
	return b
}

func intOr(raw json.RawMessage, def int) int {
	if raw == nil {
		return def
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return def
	}
	return n
}

func timeOr(raw json.RawMessage, def time.Time) time.Time {
	if raw == nil {
		return def
	}
	var t time.Time
	if err := json.Unmarshal(raw, &t); err != nil {
		return def
	}
	return t
}

// minutesOr accepts both wire forms of a cooking time: an integer number of
// minutes or a preformatted string.
func minutesOr(raw json.RawMessage, def string) string {
	if raw == nil {
		return def
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return fmt.Sprintf("%d minutes", n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return def
}
