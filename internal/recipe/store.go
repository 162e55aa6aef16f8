package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// MaxRecentRecipes caps the recent feed; inserting prepends and truncates.
const MaxRecentRecipes = 10

// Record names for the four persisted collections.
const (
	recordSavedRecipes  = "savedRecipes"
	recordRecentRecipes = "recentRecipes"
	recordIngredients   = "scannedIngredients"
	recordLastScanDate  = "lastScanDate"
)

// Store defines the interface for local persistence of scans and recipes.
type Store interface {
	SaveRecipe(ctx context.Context, r Recipe) error
	UnsaveRecipe(ctx context.Context, id string) error
	GetSavedRecipes(ctx context.Context) ([]Recipe, error)
	AddToRecentRecipes(ctx context.Context, recipes []Recipe) error
	GetRecentRecipes(ctx context.Context) ([]Recipe, error)
	SetRecipeImageURL(ctx context.Context, id, imageURL string) error
	SaveIngredients(ctx context.Context, ingredients []Ingredient) error
	GetSavedIngredients(ctx context.Context) ([]Ingredient, error)
	GetLastScanDate(ctx context.Context) (time.Time, bool, error)
	CleanupOldRecipes(ctx context.Context) error
}

// SQLiteStore implements Store on a single local database file. Each
// collection is one JSON record; every mutation is a read-modify-write of
// the whole collection, so mutations are serialized with a mutex.
type SQLiteStore struct {
	db  *sqlx.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteStore opens or creates the database file.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS records (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create records table: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRecipe upserts a recipe into the saved collection by id, forcing the
// saved flag on.
func (s *SQLiteStore) SaveRecipe(ctx context.Context, r Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var saved []Recipe
	if err := s.readRecord(ctx, recordSavedRecipes, &saved); err != nil {
		return err
	}

	r.Saved = true
	replaced := false
	for i := range saved {
		if saved[i].ID == r.ID {
			saved[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		saved = append(saved, r)
	}

	return s.writeRecord(ctx, recordSavedRecipes, saved)
}

// UnsaveRecipe removes a recipe from the saved collection. Removing an
// absent id is a no-op.
func (s *SQLiteStore) UnsaveRecipe(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var saved []Recipe
	if err := s.readRecord(ctx, recordSavedRecipes, &saved); err != nil {
		return err
	}

	kept := saved[:0]
	for _, r := range saved {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(saved) {
		return nil
	}

	return s.writeRecord(ctx, recordSavedRecipes, kept)
}

// GetSavedRecipes returns the bookmarked recipes, newest first. Entries
// whose saved flag is off are filtered out defensively; CleanupOldRecipes
// removes them for good at startup.
func (s *SQLiteStore) GetSavedRecipes(ctx context.Context) ([]Recipe, error) {
	var saved []Recipe
	if err := s.readRecord(ctx, recordSavedRecipes, &saved); err != nil {
		return nil, err
	}

	recipes := make([]Recipe, 0, len(saved))
	for _, r := range saved {
		if r.Saved {
			recipes = append(recipes, r)
		}
	}
	sortNewestFirst(recipes)
	return recipes, nil
}

// AddToRecentRecipes prepends the batch to the recent feed and truncates it
// to MaxRecentRecipes entries.
func (s *SQLiteStore) AddToRecentRecipes(ctx context.Context, recipes []Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recent []Recipe
	if err := s.readRecord(ctx, recordRecentRecipes, &recent); err != nil {
		return err
	}

	recent = append(append([]Recipe{}, recipes...), recent...)
	if len(recent) > MaxRecentRecipes {
		recent = recent[:MaxRecentRecipes]
	}

	return s.writeRecord(ctx, recordRecentRecipes, recent)
}

// GetRecentRecipes returns the recent feed, newest first.
func (s *SQLiteStore) GetRecentRecipes(ctx context.Context) ([]Recipe, error) {
	var recent []Recipe
	if err := s.readRecord(ctx, recordRecentRecipes, &recent); err != nil {
		return nil, err
	}
	sortNewestFirst(recent)
	return recent, nil
}

// SetRecipeImageURL attaches a photo URL to a recipe wherever it appears.
// Photo enrichment completes after the recipe is already persisted, so this
// is the only post-generation write besides the saved flag.
func (s *SQLiteStore) SetRecipeImageURL(ctx context.Context, id, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{recordRecentRecipes, recordSavedRecipes} {
		var recipes []Recipe
		if err := s.readRecord(ctx, name, &recipes); err != nil {
			return err
		}
		updated := false
		for i := range recipes {
			if recipes[i].ID == id {
				recipes[i].ImageURL = imageURL
				updated = true
			}
		}
		if !updated {
			continue
		}
		if err := s.writeRecord(ctx, name, recipes); err != nil {
			return err
		}
	}
	return nil
}

// SaveIngredients replaces the scan snapshot wholesale and stamps the
// last-scan date.
func (s *SQLiteStore) SaveIngredients(ctx context.Context, ingredients []Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ingredients == nil {
		ingredients = []Ingredient{}
	}
	if err := s.writeRecord(ctx, recordIngredients, ingredients); err != nil {
		return err
	}
	return s.writeRecord(ctx, recordLastScanDate, s.now().UTC())
}

// GetSavedIngredients returns the current scan snapshot.
func (s *SQLiteStore) GetSavedIngredients(ctx context.Context) ([]Ingredient, error) {
	var ingredients []Ingredient
	if err := s.readRecord(ctx, recordIngredients, &ingredients); err != nil {
		return nil, err
	}
	return ingredients, nil
}

// GetLastScanDate returns the last-scan stamp; ok is false when the user
// has never scanned.
func (s *SQLiteStore) GetLastScanDate(ctx context.Context) (time.Time, bool, error) {
	var stamp time.Time
	if err := s.readRecord(ctx, recordLastScanDate, &stamp); err != nil {
		return time.Time{}, false, err
	}
	if stamp.IsZero() {
		return time.Time{}, false, nil
	}
	return stamp, true, nil
}

// CleanupOldRecipes is a one-time migration run at process start. An
// earlier schema auto-persisted every generated recipe into the saved
// collection; this drops any entry whose saved flag is off.
func (s *SQLiteStore) CleanupOldRecipes(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var saved []Recipe
	if err := s.readRecord(ctx, recordSavedRecipes, &saved); err != nil {
		return err
	}

	kept := make([]Recipe, 0, len(saved))
	for _, r := range saved {
		if r.Saved {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(saved) {
		return nil
	}

	return s.writeRecord(ctx, recordSavedRecipes, kept)
}

func (s *SQLiteStore) readRecord(ctx context.Context, name string, out any) error {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM records WHERE name = ?", name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to read record %q: %w", name, err)
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return fmt.Errorf("failed to decode record %q: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) writeRecord(ctx context.Context, name string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record %q: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO records (name, value) VALUES (?, ?) ON CONFLICT (name) DO UPDATE SET value = excluded.value",
		name,
		string(value),
	)
	if err != nil {
		return fmt.Errorf("failed to write record %q: %w", name, err)
	}
	return nil
}

func sortNewestFirst(recipes []Recipe) {
	sort.SliceStable(recipes, func(i, j int) bool {
		return recipes[i].CreatedAt.After(recipes[j].CreatedAt)
	})
}
