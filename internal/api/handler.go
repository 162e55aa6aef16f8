package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mealmaker/internal/platform/gemini"
	"mealmaker/internal/platform/pexels"
	"mealmaker/internal/recipe"
)

// VisionClient defines the interface for image-to-ingredient extraction.
type VisionClient interface {
	IdentifyIngredients(ctx context.Context, imageData []byte) ([]recipe.Ingredient, error)
}

// RecipeGenerator defines the interface for ingredient-to-recipe generation.
type RecipeGenerator interface {
	GenerateRecipes(ctx context.Context, ingredients []recipe.Ingredient) ([]recipe.Recipe, error)
}

// PhotoClient defines the interface for recipe photo search.
type PhotoClient interface {
	SearchFoodPhoto(ctx context.Context, query string) (string, bool)
}

// RecipeStore defines the interface for local persistence.
type RecipeStore interface {
	SaveRecipe(ctx context.Context, r recipe.Recipe) error
	UnsaveRecipe(ctx context.Context, id string) error
	GetSavedRecipes(ctx context.Context) ([]recipe.Recipe, error)
	AddToRecentRecipes(ctx context.Context, recipes []recipe.Recipe) error
	GetRecentRecipes(ctx context.Context) ([]recipe.Recipe, error)
	SetRecipeImageURL(ctx context.Context, id, imageURL string) error
	SaveIngredients(ctx context.Context, ingredients []recipe.Ingredient) error
	GetSavedIngredients(ctx context.Context) ([]recipe.Ingredient, error)
	GetLastScanDate(ctx context.Context) (time.Time, bool, error)
	CleanupOldRecipes(ctx context.Context) error
}

// Handler handles HTTP requests.
type Handler struct {
	Vision      VisionClient
	Generator   RecipeGenerator
	Photos      PhotoClient
	RecipeStore RecipeStore
}

// NewHandler creates a new Handler.
func NewHandler(vision VisionClient, generator RecipeGenerator, photos PhotoClient, store RecipeStore) *Handler {
	return &Handler{Vision: vision, Generator: generator, Photos: photos, RecipeStore: store}
}

// Scan handles fridge photo uploads and returns the detected ingredients.
// Nothing is persisted here; the user edits the list before confirming it.
func (h *Handler) Scan(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		log.Printf("Error getting form file: %v", err)
		c.String(http.StatusBadRequest, fmt.Sprintf("get form err: %s", err.Error()))
		return
	}

	allowedExtensions := map[string]bool{
		".jpeg": true,
		".jpg":  true,
		".png":  true,
	}
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[extension] {
		c.String(http.StatusBadRequest, "Invalid file type. Only JPEG, JPG, and PNG images are allowed.")
		return
	}

	src, err := file.Open()
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("open file err: %s", err.Error()))
		return
	}
	defer src.Close()

	imageData, err := io.ReadAll(src)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("read image err: %s", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 45*time.Second)
	defer cancel()

	ingredients, err := h.Vision.IdentifyIngredients(ctx, imageData)
	if err != nil {
		h.renderModelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

// SaveIngredients persists the confirmed scan snapshot wholesale and stamps
// the last-scan date.
func (h *Handler) SaveIngredients(c *gin.Context) {
	var req struct {
		Ingredients []recipe.Ingredient `json:"ingredients"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("invalid ingredients: %s", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.RecipeStore.SaveIngredients(ctx, req.Ingredients); err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("failed to save ingredients: %s", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": req.Ingredients})
}

// GetIngredients returns the current scan snapshot and the last-scan date.
func (h *Handler) GetIngredients(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ingredients, err := h.RecipeStore.GetSavedIngredients(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	if ingredients == nil {
		ingredients = []recipe.Ingredient{}
	}

	lastScan, scanned, err := h.RecipeStore.GetLastScanDate(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}

	resp := gin.H{"ingredients": ingredients, "last_scan": nil}
	if scanned {
		resp["last_scan"] = lastScan
	}
	c.JSON(http.StatusOK, resp)
}

// Generate creates 3 recipes from the request's ingredient list, falling
// back to the stored snapshot when the body carries none. Recipes go into
// the recent feed before the response; photo enrichment runs afterwards in
// the background so it never delays the recipes.
func (h *Handler) Generate(c *gin.Context) {
	var req struct {
		Ingredients []recipe.Ingredient `json:"ingredients"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.String(http.StatusBadRequest, fmt.Sprintf("invalid ingredients: %s", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 45*time.Second)
	defer cancel()

	ingredients := req.Ingredients
	if len(ingredients) == 0 {
		stored, err := h.RecipeStore.GetSavedIngredients(ctx)
		if err != nil {
			c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
			return
		}
		ingredients = stored
	}
	if len(ingredients) == 0 {
		c.String(http.StatusUnprocessableEntity, "No ingredients found. Please scan your fridge first.")
		return
	}

	recipes, err := h.Generator.GenerateRecipes(ctx, ingredients)
	if err != nil {
		h.renderModelError(c, err)
		return
	}

	if err := h.RecipeStore.AddToRecentRecipes(ctx, recipes); err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("failed to save recipes: %s", err.Error()))
		return
	}

	h.enrichRecipes(recipes)

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// GetRecentRecipes returns the recent feed, newest first.
func (h *Handler) GetRecentRecipes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipes, err := h.RecipeStore.GetRecentRecipes(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	if recipes == nil {
		recipes = []recipe.Recipe{}
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// GetSavedRecipes returns the bookmarked recipes, newest first.
func (h *Handler) GetSavedRecipes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipes, err := h.RecipeStore.GetSavedRecipes(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
		return
	}
	if recipes == nil {
		recipes = []recipe.Recipe{}
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// SaveRecipe bookmarks a recipe.
func (h *Handler) SaveRecipe(c *gin.Context) {
	var r recipe.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("invalid recipe: %s", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.RecipeStore.SaveRecipe(ctx, r); err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("failed to save recipe: %s", err.Error()))
		return
	}

	r.Saved = true
	c.JSON(http.StatusOK, gin.H{"recipe": r})
}

// UnsaveRecipe removes a bookmark. Removing an unknown id is a no-op.
func (h *Handler) UnsaveRecipe(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.RecipeStore.UnsaveRecipe(ctx, id); err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("failed to unsave recipe: %s", err.Error()))
		return
	}

	c.Status(http.StatusNoContent)
}

// enrichRecipes looks up a stock photo for each recipe in its own
// goroutine and writes the URL back through the store. Titles with no
// recognized food word skip the search entirely and keep the placeholder.
func (h *Handler) enrichRecipes(recipes []recipe.Recipe) {
	for _, r := range recipes {
		go func(r recipe.Recipe) {
			query, ok := pexels.ExtractFoodKeywords(r.Title)
			if !ok {
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			imageURL, ok := h.Photos.SearchFoodPhoto(ctx, query)
			if !ok {
				return
			}
			if err := h.RecipeStore.SetRecipeImageURL(ctx, r.ID, imageURL); err != nil {
				log.Printf("failed to store image URL for recipe %s: %v", r.ID, err)
			}
		}(r)
	}
}

// renderModelError maps a model-pipeline failure to an HTTP status. The
// message is the error's own text so the user can act on it and retry.
func (h *Handler) renderModelError(c *gin.Context, err error) {
	var apiErr *gemini.APIError
	var httpErr *gemini.HTTPError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		c.String(http.StatusRequestTimeout, "Model call timed out after 45 seconds")
	case errors.Is(err, gemini.ErrImagePreparationFailed):
		c.String(http.StatusBadRequest, err.Error())
	case errors.Is(err, gemini.ErrNoIngredientsDetected),
		errors.Is(err, gemini.ErrNoIngredientsProvided),
		errors.Is(err, gemini.ErrNoRecipesGenerated):
		c.String(http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &apiErr), errors.As(err, &httpErr),
		errors.Is(err, gemini.ErrEmptyResponse),
		errors.Is(err, gemini.ErrJSONParsingFailed):
		c.String(http.StatusBadGateway, err.Error())
	default:
		c.String(http.StatusInternalServerError, fmt.Sprintf("model err: %s", err.Error()))
	}
}
