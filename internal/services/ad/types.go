package ad

import "time"

// MaxImages caps hosted image URLs per ad.
const MaxImages = 12

// maxCodeAttempts bounds the unique-code generation loop; past this the
// operation fails with CodeGenerationExhausted instead of spinning.
const maxCodeAttempts = 8

// CreateAdInput carries everything needed to create a draft ad. Values holds
// the dynamic attributes keyed by field key, exactly as submitted.
type CreateAdInput struct {
	CategoryKey string
	Title       string
	Price       *float64
	City        string
	Values      map[string]any
	Images      []string
	Video       string
}

// UpdateAdInput is a partial patch: nil pointers mean "leave untouched".
// Values replaces only the keys it mentions; Images and Video, when set,
// replace the existing media of that kind wholesale.
type UpdateAdInput struct {
	Title  *string
	Price  *float64
	City   *string
	Values map[string]any
	Images *[]string
	Video  *string
}

// AdDetail is the owner-facing projection of an ad.
type AdDetail struct {
	ID          uint           `json:"id"`
	Code        string         `json:"code"`
	Category    string         `json:"category"`
	Title       string         `json:"title"`
	Price       *float64       `json:"price,omitempty"`
	City        string         `json:"city"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	Values      map[string]any `json:"values"`
	Images      []string       `json:"images"`
	Video       *string        `json:"video,omitempty"`
}

// PublicAd is the anonymous projection of a published ad: only fields whose
// definitions are publicly visible appear in Values.
type PublicAd struct {
	Code        string         `json:"code"`
	Category    string         `json:"category"`
	Title       string         `json:"title"`
	Price       *float64       `json:"price,omitempty"`
	City        string         `json:"city"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	Values      map[string]any `json:"values"`
	Images      []string       `json:"images"`
	Video       *string        `json:"video,omitempty"`
}
