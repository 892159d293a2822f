package port

// CardVault seals payment-instrument data before it is persisted and opens it
// back for authorized use. Raw card data must never reach the repository.
//
//go:generate mockgen -source=vault.go -destination=mock/vault.go -package=mock
type CardVault interface {
	Seal(plaintext string) (string, error)
	Open(ciphertext string) (string, error)
}
