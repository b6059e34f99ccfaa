package password

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// BcryptDefaultCost is the default bcrypt work factor (~250ms on current
// hardware, above the OWASP minimum of 10).
const BcryptDefaultCost = 12

// Bcrypt is a bcrypt hashing strategy. Safe for concurrent use.
//
// bcrypt operates on at most 72 password bytes: longer inputs are rejected
// with an error by Hash (no silent truncation), and Verify surfaces the
// underlying error for them.
type Bcrypt struct {
	cost      int
	dummyOnce sync.Once
	dummyHash []byte
}

// NewBcrypt returns a bcrypt strategy with the given work factor. Costs
// outside [bcrypt.MinCost, bcrypt.MaxCost] fall back to BcryptDefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = BcryptDefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Cost returns the configured work factor.
func (b *Bcrypt) Cost() int {
	return b.cost
}

// Hash returns the bcrypt hash of password under the configured cost.
func (b *Bcrypt) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify compares password against hashed. A mismatch is (false, nil);
// anything else wrong with the input (malformed hash, >72 password bytes)
// is an error.
func (b *Bcrypt) Verify(password, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// DummyVerify runs a full bcrypt comparison against a fixed reference hash
// generated lazily at the configured cost. The comparison never succeeds
// and the result is discarded; its cost equals one Verify call.
func (b *Bcrypt) DummyVerify() {
	b.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte(dummyPlaintext), b.cost)
		if err != nil {
			return
		}
		b.dummyHash = h
	})
	if len(b.dummyHash) == 0 {
		return
	}
	_ = bcrypt.CompareHashAndPassword(b.dummyHash, []byte(dummyMismatch))
}
