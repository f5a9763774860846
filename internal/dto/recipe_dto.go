package dto

// TagResponse and IngredientResponse share a shape; they stay separate types
// so the two resources can diverge without breaking clients.
type TagResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type IngredientResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CreateTagRequest struct {
	Name string `json:"name"`
}

type CreateIngredientRequest struct {
	Name string `json:"name"`
}

// CreateRecipeRequest doubles as the PUT payload: a full update revalidates
// the same required fields and resets anything omitted, including the tag
// and ingredient sets.
type CreateRecipeRequest struct {
	Title       string   `json:"title"`
	TimeMinutes *int     `json:"time_minutes"`
	Price       *float64 `json:"price"`
	Link        string   `json:"link"`
	Tags        []uint   `json:"tags"`
	Ingredients []uint   `json:"ingredients"`
}

// PatchRecipeRequest carries merge semantics: nil means "leave unchanged",
// including for the tag and ingredient id lists.
type PatchRecipeRequest struct {
	Title       *string  `json:"title"`
	TimeMinutes *int     `json:"time_minutes"`
	Price       *float64 `json:"price"`
	Link        *string  `json:"link"`
	Tags        *[]uint  `json:"tags"`
	Ingredients *[]uint  `json:"ingredients"`
}

// RecipeResponse is the list-item shape: relations as id lists.
type RecipeResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	TimeMinutes int     `json:"time_minutes"`
	Price       float64 `json:"price"`
	Link        string  `json:"link"`
	Image       string  `json:"image"`
	Tags        []uint  `json:"tags"`
	Ingredients []uint  `json:"ingredients"`
}

// RecipeDetailResponse expands relations into full objects.
type RecipeDetailResponse struct {
	ID          uint                 `json:"id"`
	Title       string               `json:"title"`
	TimeMinutes int                  `json:"time_minutes"`
	Price       float64              `json:"price"`
	Link        string               `json:"link"`
	Image       string               `json:"image"`
	Tags        []TagResponse        `json:"tags"`
	Ingredients []IngredientResponse `json:"ingredients"`
}
