package domain

// Seller is the minimal projection of a seller record, owned by the seller
// directory service and read-only here. Search results embed it in place of
// the raw seller_id.
type Seller struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	City      string  `json:"city,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}
