// Package auth builds the identity credentials attached to a connection
// attempt. The outcome of the handshake itself is classified downstream,
// from the connect_error event, not here.
package auth

import (
	"chat-client/domain"
	"chat-client/errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

// sessionKey signs the identity token for the lifetime of the process.
// In a production environment, this should be loaded from an environment
// variable or a secret manager.
var sessionKey = []byte("chat_client_identity_signing_key")

var validate = validator.New()

type identity struct {
	DisplayName string `validate:"required,min=1,max=32"`
}

// IdentityClaims is the payload of the signed identity token.
type IdentityClaims struct {
	DisplayName string `json:"display_name"`
	jwt.RegisteredClaims
}

// Attempt validates the chosen display name and wraps it into the opaque
// credentials blob carried by the connection attempt. It never touches the
// network: callers must not dial at all when it fails.
func Attempt(displayName string) (domain.Credentials, error) {
	if err := validate.Struct(identity{DisplayName: displayName}); err != nil {
		return domain.Credentials{}, fmt.Errorf("%w: %v", errors.ErrInvalidIdentity, err)
	}

	claims := &IdentityClaims{
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Issuer:   "chat-client",
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sessionKey)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("signing identity token: %w", err)
	}

	return domain.Credentials{DisplayName: displayName, Token: token}, nil
}

// ParseIdentity decodes a token produced by Attempt. It exists for the
// benefit of test doubles standing in for the room service.
func ParseIdentity(tokenString string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(*jwt.Token) (interface{}, error) {
		return sessionKey, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*IdentityClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
