package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"mealmaker/internal/recipe"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	// Both stages use the same model; the text-only call is still cheaper
	// and faster because it carries no image payload.
	visionModel = "gemini-2.5-flash"
	textModel   = "gemini-2.5-flash"

	maxIngredients = 12
)

// Client is a client for the Gemini generateContent API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a new Gemini client.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}
}

// generateRequest is the request body for a generateContent call.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// generateResponse is the subset of the reply the pipeline consumes: the
// first candidate's first text part.
type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type ingredientsPayload struct {
	Ingredients []recipe.Ingredient `json:"ingredients"`
}

type recipesPayload struct {
	Recipes []recipe.Recipe `json:"recipes"`
}

// IdentifyIngredients prepares the photo, asks the vision model for the
// most significant food items and returns at most maxIngredients of them
// in the model's priority order.
func (c *Client) IdentifyIngredients(ctx context.Context, imageData []byte) ([]recipe.Ingredient, error) {
	base64Image, err := PrepareImage(imageData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImagePreparationFailed, err)
	}

	prompt := fmt.Sprintf(`Analyze this fridge photo and identify the most SIGNIFICANT food items for cooking meals. Prioritize:

HIGH PRIORITY:
- Main proteins (chicken, beef, fish, eggs, tofu)
- Primary vegetables (onions, peppers, spinach, broccoli)
- Dairy essentials (milk, cheese, butter, yogurt)
- Carb bases (bread, pasta, rice, potatoes)

MEDIUM PRIORITY:
- Secondary vegetables and fruits
- Cooking ingredients (sauces, oils)

IGNORE:
- Small condiment packets
- Single-use items
- Beverages (unless cooking ingredients like milk)
- Items too small to be meal components

Be specific with ingredient names. Use common grocery store names.

Return ONLY valid JSON in this exact format:
{
  "ingredients": [
    {"name": "chicken breast", "quantity": "2 pieces"},
    {"name": "cheddar cheese", "quantity": "1 block"},
    {"name": "spinach", "quantity": "1 bag"}
  ]
}

Requirements:
- Focus on ingredients that can make complete meals
- Use specific names (e.g., "cheddar cheese" not "cheese", "chicken breast" not "meat")
- Estimate realistic quantities
- List most important ingredients first
- Return up to %d significant ingredients maximum`, maxIngredients)

	text, err := c.generateContent(ctx, visionModel, prompt, base64Image)
	if err != nil {
		return nil, err
	}

	payload, err := decodeReply[ingredientsPayload](text)
	if err != nil {
		return nil, err
	}

	ingredients := payload.Ingredients
	if len(ingredients) > maxIngredients {
		ingredients = ingredients[:maxIngredients]
	}
	if len(ingredients) == 0 {
		return nil, ErrNoIngredientsDetected
	}
	return ingredients, nil
}

// GenerateRecipes asks the text model for exactly 3 recipes built around
// the given ingredients.
func (c *Client) GenerateRecipes(ctx context.Context, ingredients []recipe.Ingredient) ([]recipe.Recipe, error) {
	if len(ingredients) == 0 {
		return nil, ErrNoIngredientsProvided
	}

	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		names = append(names, ing.Name)
	}
	ingredientList := strings.Join(names, ", ")

	prompt := fmt.Sprintf(`Create exactly 3 recipes for college students using these ingredients: %s

Requirements:
- Use primarily the listed ingredients
- Assume basic pantry staples: salt, pepper, cooking oil, butter
- Cook time: 15-30 minutes maximum
- Equipment: stovetop, microwave, oven, basic pans and utensils only
- Difficulty: easy to medium
- Budget-friendly and filling

Return ONLY valid JSON in this exact format:
{
  "recipes": [
    {
      "title": "Recipe Name",
      "estimated_time": 25,
      "difficulty": "easy",
      "ingredients": ["ingredient1", "ingredient2", "ingredient3"],
      "instructions": [
        "Step 1 description",
        "Step 2 description",
        "Step 3 description"
      ],
      "servings": 2
    }
  ]
}

Make recipes practical for dorm/apartment cooking with minimal cleanup.
Generate exactly 3 different recipes.`, ingredientList)

	text, err := c.generateContent(ctx, textModel, prompt, "")
	if err != nil {
		return nil, err
	}

	payload, err := decodeReply[recipesPayload](text)
	if err != nil {
		return nil, err
	}
	if len(payload.Recipes) == 0 {
		return nil, ErrNoRecipesGenerated
	}
	return payload.Recipes, nil
}

// generateContent performs one generateContent call and returns the raw
// reply text. base64Image may be empty for text-only calls.
func (c *Client) generateContent(ctx context.Context, model, prompt, base64Image string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, model, url.QueryEscape(c.apiKey))
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}

	parts := []part{{Text: prompt}}
	if base64Image != "" {
		parts = append(parts, part{
			InlineData: &inlineData{MIMEType: "image/jpeg", Data: base64Image},
		})
	}
	reqBody := generateRequest{Contents: []content{{Parts: parts}}}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestEncodingFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", &APIError{Message: apiErr.Error.Message}
		}
		return "", &HTTPError{Status: resp.StatusCode}
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := genResp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
