// ABOUTME: Operator identity and session-token parsing for the support console
// ABOUTME: Extracts idCode and authorities from the HS256-signed session JWT

package identity

import (
	"errors"
	"fmt"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdministrator is the authority that unlocks the active-queue views
// outside team mode.
const RoleAdministrator = "ROLE_ADMINISTRATOR"

// Token errors
var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrMissingClaim = errors.New("missing required claim")
)

// Identity describes the operator the console is running as. It is set once
// per session and only read afterwards.
type Identity struct {
	// IDCode is compared against each conversation's customerSupportId.
	IDCode      string
	DisplayName string
	Authorities []string
}

// IsAdministrator reports whether the operator carries the administrator
// authority.
func (i Identity) IsAdministrator() bool {
	return slices.Contains(i.Authorities, RoleAdministrator)
}

// FromSessionToken verifies an HS256-signed session JWT and extracts the
// operator identity from its custom claims: idCode (required), displayName
// and authorities (optional).
func FromSessionToken(tokenString string, secret []byte) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	idCode, ok := claims["idCode"].(string)
	if !ok || idCode == "" {
		return Identity{}, fmt.Errorf("%w: idCode", ErrMissingClaim)
	}

	ident := Identity{IDCode: idCode}

	if name, ok := claims["displayName"].(string); ok {
		ident.DisplayName = name
	}

	// JSON arrays decode as []interface{}; non-string entries are skipped.
	if raw, ok := claims["authorities"].([]interface{}); ok {
		for _, a := range raw {
			if s, ok := a.(string); ok {
				ident.Authorities = append(ident.Authorities, s)
			}
		}
	}

	return ident, nil
}
