package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestGenerateAndParseJWT(t *testing.T) {
	t.Run("NoSecret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := GenerateJWT(1, "USER", "a@b.com")
		assert.Error(t, err)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")

		token, err := GenerateJWT(42, "ADMIN", "admin@b.com")
		assert.NoError(t, err)

		claims, err := ParseJWT(token)
		assert.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "ADMIN", claims.Role)
		assert.Equal(t, "admin@b.com", claims.Email)
	})

	t.Run("Tampered", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")

		token, err := GenerateJWT(1, "USER", "a@b.com")
		assert.NoError(t, err)

		_, err = ParseJWT(token + "x")
		assert.Error(t, err)
	})
}

func TestProfileComplete(t *testing.T) {
	var nilProfile *Profile
	assert.False(t, nilProfile.Complete())

	assert.False(t, (&Profile{FullName: "Ana"}).Complete())
	assert.False(t, (&Profile{FullName: "Ana", Phone: "0919", Address: "   "}).Complete())
	assert.True(t, (&Profile{FullName: "Ana", Phone: "0919", Address: "Talavera"}).Complete())
}
