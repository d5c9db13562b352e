package domain

import (
	"strings"
	"time"
)

// MaxNameLength bounds flower display names. Token derivation is quadratic in
// the name length, so names are capped at the edge.
const MaxNameLength = 128

// Flower represents a catalog item published by a seller. Each seller owns a
// sub-collection of flowers; Name is unique within a seller and ID is unique
// across all sellers.
type Flower struct {
	ID        string    `json:"id"`
	SellerID  string    `json:"seller_id"`
	Name      string    `json:"name"`
	LocalName string    `json:"local_name"`
	CoverURL  *string   `json:"cover_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// SearchTokens is the denormalized prefix index for name search. It is
	// an internal artifact and never serialized to API consumers.
	SearchTokens []string `json:"-"`
}

// SearchTokens derives the search token sequence for a display name: every
// left-anchored prefix of the lowercased name, shortest first. A name of N
// runes yields exactly N tokens. The result is what gets matched against a
// lowercased query term, so a query only hits when it equals one of these
// prefixes.
func SearchTokens(name string) []string {
	runes := []rune(strings.ToLower(name))
	tokens := make([]string, 0, len(runes))
	for i := 1; i <= len(runes); i++ {
		tokens = append(tokens, string(runes[:i]))
	}
	return tokens
}

// TitleCase normalizes a query term for the local-name fallback search: first
// rune upper-cased, the rest lowered. Local names are stored title-cased and
// the range query is case-sensitive.
func TitleCase(term string) string {
	runes := []rune(strings.ToLower(term))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}

// FlowerWithSeller is the search result shape: the flower projection with the
// raw seller_id replaced by the resolved seller record.
type FlowerWithSeller struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LocalName string    `json:"local_name"`
	CoverURL  *string   `json:"cover_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Seller    *Seller   `json:"seller"`
}

// WithSeller converts a flower into its enriched search result shape.
func (f *Flower) WithSeller(s *Seller) FlowerWithSeller {
	return FlowerWithSeller{
		ID:        f.ID,
		Name:      f.Name,
		LocalName: f.LocalName,
		CoverURL:  f.CoverURL,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		Seller:    s,
	}
}
