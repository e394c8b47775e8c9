package domain

import "time"

// Store links a local tenant to a Tiendanube shop. ShopID stays nil until
// the OAuth flow completes; AccessToken is stored encrypted and is never
// serialized to clients.
type Store struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	URL         string     `json:"tiendanubeUrl"`
	Description string     `json:"description,omitempty"`
	Logo        string     `json:"logo,omitempty"`
	ShopID      *int64     `json:"storeId,omitempty"`
	AccessToken string     `json:"-"`
	LastSync    *time.Time `json:"lastSync,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// HasCredentials reports whether the store can talk to the Tiendanube API.
// Credential presence implies shop id presence.
func (s *Store) HasCredentials() bool {
	return s.ShopID != nil && s.AccessToken != ""
}
