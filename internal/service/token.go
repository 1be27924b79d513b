package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenSigner mints and verifies auth token keys. Keys are HS256 JWTs that
// carry the user ID as subject and a random jti so two keys never collide.
// They have no expiry: a key stays valid for as long as it is stored.
type tokenSigner struct {
	secret []byte
}

func (s tokenSigner) mint(userID int64) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  strconv.FormatInt(userID, 10),
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	key, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return key, nil
}

// verify checks the signature and returns the user ID from the sub claim.
func (s tokenSigner) verify(key string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(key, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return 0, fmt.Errorf("parse token: invalid")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse subject: %w", err)
	}
	return userID, nil
}
