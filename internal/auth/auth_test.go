package auth_test

import (
	"crypto/x509"
	"encoding/pem"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Goofygiraffe06/prepwise/internal/auth"
	"github.com/Goofygiraffe06/prepwise/internal/models"
)

func init() {
	auth.PasswordCost = bcrypt.MinCost
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	ok, err := auth.CheckPassword(hash, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.CheckPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = auth.CheckPassword("not-a-hash", "s3cret")
	assert.Error(t, err)
}

func TestPasswordLengthBoundaries(t *testing.T) {
	for _, n := range []int{72, 73, 128, 1000} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			password := strings.Repeat("a", n)
			hash, err := auth.HashPassword(password)
			require.NoError(t, err)

			ok, err := auth.CheckPassword(hash, password)
			require.NoError(t, err)
			assert.True(t, ok)

			// bytes past bcrypt's 72-byte window still count
			ok, err = auth.CheckPassword(hash, password+"b")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSessions(t *testing.T) {
	s := auth.NewSessions("test-secret", "prepwise-test", time.Hour)
	account := models.Account{Email: "ada@example.com", Name: "Ada"}

	token, err := s.Issue(account)
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Subject)
	assert.Equal(t, "Ada", claims.Name)

	t.Run("wrong secret", func(t *testing.T) {
		other := auth.NewSessions("other-secret", "prepwise-test", time.Hour)
		_, err := other.Parse(token)
		assert.ErrorIs(t, err, auth.ErrInvalidSession)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := auth.NewSessions("test-secret", "someone-else", time.Hour)
		_, err := other.Parse(token)
		assert.ErrorIs(t, err, auth.ErrInvalidSession)
	})

	t.Run("expired", func(t *testing.T) {
		short := auth.NewSessions("test-secret", "prepwise-test", -time.Minute)
		expired, err := short.Issue(account)
		require.NoError(t, err)
		_, err = s.Parse(expired)
		assert.ErrorIs(t, err, auth.ErrInvalidSession)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Parse("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidSession)
	})
}

func TestSigningKeyPEM(t *testing.T) {
	key, err := auth.GenerateSigningKey()
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(key.PrivateKey)
	require.NoError(t, err)
	pemData := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	parsed, err := auth.ParseSigningKey(pemData)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey, parsed.PublicKey)
	assert.True(t, strings.HasPrefix(parsed.DKIMRecord(), "v=DKIM1; k=ed25519; p="))

	_, err = auth.ParseSigningKey([]byte("garbage"))
	assert.Error(t, err)
}

func TestGenerateNonce(t *testing.T) {
	a, err := auth.GenerateNonce()
	require.NoError(t, err)
	b, err := auth.GenerateNonce()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
