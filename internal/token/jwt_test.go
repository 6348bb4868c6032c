package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestJWT_AccessToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret")
	u := uuid.New()

	access, err := j.GenerateAccessToken(u, "a@b.c")
	require.NoError(t, err)
	got, err := j.ParseAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestJWT_WrongSecret(t *testing.T) {
	access, err := NewJWT("secret").GenerateAccessToken(uuid.New(), "")
	require.NoError(t, err)

	_, err = NewJWT("other").ParseAccessToken(access)
	require.Error(t, err)
}

func TestJWT_Expired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
		},
		Role: roleAuthenticated,
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWT("secret").ParseAccessToken(signed)
	require.Error(t, err)
}

func TestJWT_RoleAndSubjectValidation(t *testing.T) {
	tests := []struct {
		name   string
		claims Claims
	}{
		{
			name: "anonymous role",
			claims: Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
				Role:             "anon",
			},
		},
		{
			name: "non uuid subject",
			claims: Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
				Role:             roleAuthenticated,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString([]byte("secret"))
			require.NoError(t, err)

			_, err = NewJWT("secret").ParseAccessToken(signed)
			require.Error(t, err)
		})
	}
}

func TestJWT_Garbage(t *testing.T) {
	_, err := NewJWT("secret").ParseAccessToken("not-a-token")
	require.Error(t, err)
}
