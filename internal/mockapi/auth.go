package mockapi

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the user code in the subject.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

func GenerateToken(userCode int64, email string, secretKey []byte, validity time.Duration, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userCode, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ParseToken verifies the signature and checks expiry against now.
func ParseToken(tokenString string, secretKey []byte, now time.Time) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Claims) UserCode() (int64, error) {
	code, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return code, nil
}

// revocations remembers logged-out token ids until they would have expired
// anyway. Tokens issued at or before cutoff are rejected wholesale.
type revocations struct {
	mu     sync.Mutex
	ids    map[string]time.Time
	cutoff time.Time
}

func (r *revocations) revokeIssuedBefore(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cutoff = t
}

func (r *revocations) rejected(c *Claims, now time.Time) bool {
	r.mu.Lock()
	cutoff := r.cutoff
	r.mu.Unlock()
	if !cutoff.IsZero() && c.IssuedAt != nil && !c.IssuedAt.After(cutoff) {
		return true
	}
	return r.revoked(c.ID, now)
}

func (r *revocations) revoke(id string, until time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ids == nil {
		r.ids = make(map[string]time.Time)
	}
	r.ids[id] = until
}

func (r *revocations) revoked(id string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, until := range r.ids {
		if now.After(until) {
			delete(r.ids, k)
		}
	}
	_, ok := r.ids[id]
	return ok
}
