package valueobject_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisconis/identity-api/internal/apperror"
	"github.com/sisconis/identity-api/internal/domain/valueobject"
)

// spyHasher records how often Hash is called and produces a deterministic
// fake hash so tests can assert on it.
type spyHasher struct {
	hashCalls int
}

func (s *spyHasher) Hash(_ context.Context, plain string) (string, error) {
	s.hashCalls++
	return "hashed:" + plain, nil
}

func (s *spyHasher) Compare(_ context.Context, plain, hash string) bool {
	return hash == "hashed:"+plain
}

func TestNewPermanentPassword_HashesStrongCandidate(t *testing.T) {
	hasher := &spyHasher{}
	pwd, err := valueobject.NewPermanentPassword(context.Background(), "secret99", hasher)
	require.NoError(t, err)

	assert.Equal(t, "hashed:secret99", pwd.Hash())
	assert.False(t, pwd.IsTemporary())
	assert.Equal(t, 1, hasher.hashCalls)
}

func TestNewPermanentPassword_WeakInputNeverReachesHasher(t *testing.T) {
	hasher := &spyHasher{}
	cases := []string{"", "short1", "onlyletters", "12345678"}
	for _, raw := range cases {
		_, err := valueobject.NewPermanentPassword(context.Background(), raw, hasher)
		require.Error(t, err, "input %q should be rejected", raw)

		var invalid *apperror.InvalidPasswordError
		assert.True(t, errors.As(err, &invalid))
	}
	assert.Zero(t, hasher.hashCalls)
}

func TestTemporaryPasswordFromDni_IsTaggedTemporary(t *testing.T) {
	hasher := &spyHasher{}
	dni, err := valueobject.NewDni("12345678")
	require.NoError(t, err)

	pwd, err := valueobject.TemporaryPasswordFromDni(context.Background(), dni, hasher)
	require.NoError(t, err)

	assert.True(t, pwd.IsTemporary())
	assert.True(t, pwd.Matches(context.Background(), "12345678", hasher))
}

func TestRehydratePassword_RestoresVariant(t *testing.T) {
	perm := valueobject.RehydratePassword("stored-hash", false)
	assert.False(t, perm.IsTemporary())
	assert.Equal(t, "stored-hash", perm.Hash())

	temp := valueobject.RehydratePassword("stored-hash", true)
	assert.True(t, temp.IsTemporary())
}

func TestPassword_MatchesDelegatesToHasher(t *testing.T) {
	hasher := &spyHasher{}
	pwd, err := valueobject.NewPermanentPassword(context.Background(), "secret99", hasher)
	require.NoError(t, err)

	assert.True(t, pwd.Matches(context.Background(), "secret99", hasher))
	assert.False(t, pwd.Matches(context.Background(), "wrong999", hasher))
}
