package domain

import "time"

// User is a local account for the favorites API. Unrelated to the sync
// engine; passwords are stored as bcrypt hashes.
type User struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	EmailVerified     bool      `json:"emailVerified"`
	VerificationToken string    `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Favorite is a user-to-product bookmark, unique per (UserID, StoreID,
// ProductID).
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	StoreID   int64     `json:"storeId"`
	ProductID int64     `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}
