package crypto

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// Credentials is a copy of the unlocked session state handed to the cipher
// engine. Callers own the copy and should Wipe it when done.
type Credentials struct {
	MasterSecret []byte
	UserID       string
}

// Wipe overwrites the master secret held by c.
func (c *Credentials) Wipe() {
	Wipe(c.MasterSecret)
	c.MasterSecret = nil
}

// SessionSource yields the active unlocked session. Implementations return
// an ErrSession error when the vault is locked.
type SessionSource interface {
	Current() (Credentials, error)
}

// KeyProvider derives (or recalls) the symmetric key for a master secret
// and user id.
type KeyProvider interface {
	DeriveKey(ctx context.Context, masterSecret []byte, userID string, useCache bool) (*Key, error)
}
