package auth

import (
	"errors"
	"fmt"
	"time"

	"dog-kennel/internal/domain/errs"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "dog-kennel"

// tokenClaims: Subject = account id, ID (jti) = session id.
type tokenClaims struct {
	jwt.RegisteredClaims
}

type signer struct {
	secret []byte
}

func (s signer) sign(sess Session) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   sess.AccountID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// parse valida firma, algoritmo, emisor y expiración. now se inyecta para tests.
func (s signer) parse(token string, now func() time.Time) (tokenClaims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return tokenClaims{}, fmt.Errorf("%w: %v", errs.ErrInvalidCredentials, err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return tokenClaims{}, errors.Join(errs.ErrInvalidCredentials, errors.New("token missing session or subject"))
	}
	return claims, nil
}
