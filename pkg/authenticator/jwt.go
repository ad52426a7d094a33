package authenticator

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrEmptySubject = errors.New("token has no subject")

// TokenEngine issues and verifies HS256 access tokens. The subject of a token
// is the account id of its holder.
type TokenEngine struct {
	secret string
	issuer string

	counter int64
	lock    sync.Mutex
}

func NewTokenEngine(secret, issuer string) *TokenEngine {
	return &TokenEngine{secret: secret, issuer: issuer}
}

func (e *TokenEngine) Generate(sub string, expiration time.Duration) (string, error) {
	e.lock.Lock()
	e.counter++
	counter := e.counter
	e.lock.Unlock()

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		ID:        strconv.FormatInt(counter, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    e.issuer,
		NotBefore: jwt.NewNumericDate(now),
		Subject:   sub,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(e.secret))
}

// Verify checks the signature and the time claims of token and returns its
// subject.
func (e *TokenEngine) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		token, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(e.secret), nil
		},
	)
	if err != nil {
		return "", err
	}

	if e.issuer != "" && !claims.VerifyIssuer(e.issuer, true) {
		return "", fmt.Errorf("unexpected issuer %q", claims.Issuer)
	}

	if claims.Subject == "" {
		return "", ErrEmptySubject
	}

	return claims.Subject, nil
}
