package recipe

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientUnmarshal_GeneratesMissingID(t *testing.T) {
	var ing Ingredient
	err := json.Unmarshal([]byte(`{"name": "chicken breast", "quantity": "2 pieces"}`), &ing)
	require.NoError(t, err)

	assert.NotEmpty(t, ing.ID)
	assert.Equal(t, "chicken breast", ing.Name)
	assert.Equal(t, "2 pieces", ing.Quantity)
	assert.False(t, ing.Confirmed)
}

func TestIngredientUnmarshal_GeneratesIDForEmptyString(t *testing.T) {
	var ing Ingredient
	err := json.Unmarshal([]byte(`{"id": "", "name": "spinach"}`), &ing)
	require.NoError(t, err)

	assert.NotEmpty(t, ing.ID)
}

func TestIngredientUnmarshal_KeepsProvidedID(t *testing.T) {
	var ing Ingredient
	err := json.Unmarshal([]byte(`{"id": "abc-123", "name": "milk", "confirmed": true}`), &ing)
	require.NoError(t, err)

	assert.Equal(t, "abc-123", ing.ID)
	assert.True(t, ing.Confirmed)
}

func TestIngredientUnmarshal_MissingNameFails(t *testing.T) {
	var ing Ingredient
	err := json.Unmarshal([]byte(`{"quantity": "1 bag"}`), &ing)
	assert.Error(t, err)
}

func TestIngredientUnmarshal_BadOptionalFieldDefaults(t *testing.T) {
	// A wrongly-typed optional field must not fail the whole decode.
	var ing Ingredient
	err := json.Unmarshal([]byte(`{"name": "rice", "quantity": 2, "confirmed": "yes"}`), &ing)
	require.NoError(t, err)

	assert.Equal(t, "rice", ing.Name)
	assert.Empty(t, ing.Quantity)
	assert.False(t, ing.Confirmed)
}

func TestRecipeUnmarshal_CookingTimeInteger(t *testing.T) {
	var r Recipe
	err := json.Unmarshal([]byte(`{"title": "Fried Rice", "ingredients": ["rice"], "instructions": ["Fry"], "estimated_time": 25}`), &r)
	require.NoError(t, err)

	assert.Equal(t, "25 minutes", r.CookingTime)
}

func TestRecipeUnmarshal_CookingTimeString(t *testing.T) {
	var r Recipe
	err := json.Unmarshal([]byte(`{"title": "Fried Rice", "ingredients": ["rice"], "instructions": ["Fry"], "estimated_time": "25 minutes"}`), &r)
	require.NoError(t, err)

	assert.Equal(t, "25 minutes", r.CookingTime)
}

func TestRecipeUnmarshal_DefaultsAndGeneratedID(t *testing.T) {
	before := time.Now().UTC()

	var r Recipe
	err := json.Unmarshal([]byte(`{
		"title": "Cheesy Omelette",
		"ingredients": ["eggs", "cheddar cheese"],
		"instructions": ["Beat eggs", "Cook"],
		"difficulty": "easy",
		"servings": 2
	}`), &r)
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.False(t, r.Saved)
	assert.Empty(t, r.ImageURL)
	assert.Equal(t, 2, r.Servings)
	assert.False(t, r.CreatedAt.Before(before))
}

func TestRecipeUnmarshal_MissingTitleFails(t *testing.T) {
	var r Recipe
	err := json.Unmarshal([]byte(`{"ingredients": ["eggs"], "instructions": ["Cook"]}`), &r)
	assert.Error(t, err)
}

func TestRecipeUnmarshal_MissingIngredientsFails(t *testing.T) {
	var r Recipe
	err := json.Unmarshal([]byte(`{"title": "Mystery Dish", "instructions": ["Cook"]}`), &r)
	assert.ErrorIs(t, err, errMissingRecipeIngredients)
}

func TestRecipeUnmarshal_MissingInstructionsFails(t *testing.T) {
	var r Recipe
	err := json.Unmarshal([]byte(`{"title": "Mystery Dish", "ingredients": ["eggs"]}`), &r)
	assert.ErrorIs(t, err, errMissingRecipeInstructions)
}

func TestRecipeUnmarshal_EmptyListsAccepted(t *testing.T) {
	var r Recipe
	err := json.Unmarshal([]byte(`{"title": "Mystery Dish", "ingredients": [], "instructions": []}`), &r)
	require.NoError(t, err)

	assert.NotNil(t, r.Ingredients)
	assert.NotNil(t, r.Instructions)
}

func TestRecipeUnmarshal_RoundTripPreservesIdentity(t *testing.T) {
	original := Recipe{
		ID:           "id-1",
		Title:        "Pasta Bake",
		Ingredients:  []string{"pasta", "cheese"},
		Instructions: []string{"Boil", "Bake"},
		CookingTime:  "30 minutes",
		Servings:     4,
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Saved:        true,
		ImageURL:     "https://images.example/pasta.jpg",
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Recipe
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}
