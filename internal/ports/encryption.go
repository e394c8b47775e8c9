package ports

// EncryptionService encrypts secrets (store access tokens) before they hit
// the database.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
