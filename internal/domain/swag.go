package domain

// Swag is a catalog item users can redeem.
type Swag struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
	Image    string `json:"image"`
}
