package auth

import (
	"chat-client/errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttempt_BuildsCredentialsForValidName(t *testing.T) {
	req := require.New(t)

	// When a non-empty display name is submitted
	credentials, err := Attempt("leon")

	// Then the credentials carry the name and a decodable identity token
	req.NoError(err)
	req.Equal("leon", credentials.DisplayName)

	claims, err := ParseIdentity(credentials.Token)
	req.NoError(err)
	req.Equal("leon", claims.DisplayName)
}

func TestAttempt_RejectsEmptyName(t *testing.T) {
	req := require.New(t)

	// When an empty display name is submitted
	_, err := Attempt("")

	// Then the attempt fails synchronously with the identity error
	req.ErrorIs(err, errors.ErrInvalidIdentity)
}

func TestAttempt_RejectsOversizedName(t *testing.T) {
	req := require.New(t)

	_, err := Attempt(strings.Repeat("a", 33))

	req.ErrorIs(err, errors.ErrInvalidIdentity)
}

func TestParseIdentity_RejectsForeignToken(t *testing.T) {
	req := require.New(t)

	_, err := ParseIdentity("not-a-token")

	req.Error(err)
}
