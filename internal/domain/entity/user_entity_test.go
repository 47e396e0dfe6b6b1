package entity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisconis/identity-api/internal/domain/entity"
	"github.com/sisconis/identity-api/internal/domain/valueobject"
)

type stubIDGen struct{ id string }

func (s stubIDGen) NewID() string { return s.id }

type fakeHasher struct{}

func (fakeHasher) Hash(_ context.Context, plain string) (string, error) {
	return "H:" + plain, nil
}

func (fakeHasher) Compare(_ context.Context, plain, hash string) bool {
	return hash == "H:"+plain
}

func newTestUser(t *testing.T) *entity.User {
	t.Helper()
	user, err := entity.NewUser(context.Background(), entity.CreateUserProps{
		Name:     "John",
		LastName: "Doe",
		Email:    "John@X.com",
		Dni:      "12345678",
	}, stubIDGen{id: "id-1"}, fakeHasher{})
	require.NoError(t, err)
	return user
}

func TestNewUser_BuildsWithTemporaryPassword(t *testing.T) {
	user := newTestUser(t)

	assert.Equal(t, "id-1", user.ID())
	assert.Equal(t, "john@x.com", user.Email().Value())
	assert.Equal(t, "12345678", user.Dni().Value())
	assert.True(t, user.IsPasswordTemporary())
	assert.True(t, user.VerifyPassword(context.Background(), "12345678", fakeHasher{}))
	assert.False(t, user.CreatedAt().IsZero())

	_, updated := user.UpdatedAt()
	assert.False(t, updated, "fresh user has no update timestamp")
}

func TestNewUser_InvalidEmailSkipsIDGeneration(t *testing.T) {
	_, err := entity.NewUser(context.Background(), entity.CreateUserProps{
		Name:     "John",
		LastName: "Doe",
		Email:    "not-an-email",
		Dni:      "12345678",
	}, stubIDGen{id: "id-1"}, fakeHasher{})
	require.Error(t, err)
}

func TestChangePassword_CollapsesToPermanent(t *testing.T) {
	user := newTestUser(t)
	require.True(t, user.IsPasswordTemporary())

	err := user.ChangePassword(context.Background(), "newsecret1", fakeHasher{})
	require.NoError(t, err)

	assert.False(t, user.IsPasswordTemporary())
	assert.True(t, user.VerifyPassword(context.Background(), "newsecret1", fakeHasher{}))
	assert.False(t, user.VerifyPassword(context.Background(), "12345678", fakeHasher{}))

	_, updated := user.UpdatedAt()
	assert.True(t, updated)
}

func TestChangePassword_WeakInputLeavesStateUntouched(t *testing.T) {
	user := newTestUser(t)

	err := user.ChangePassword(context.Background(), "short", fakeHasher{})
	require.Error(t, err)

	assert.True(t, user.IsPasswordTemporary())
	assert.True(t, user.VerifyPassword(context.Background(), "12345678", fakeHasher{}))

	_, updated := user.UpdatedAt()
	assert.False(t, updated, "failed change must not bump updatedAt")
}

func TestResetToTemporaryPassword_DerivesFromCurrentDni(t *testing.T) {
	user := newTestUser(t)
	require.NoError(t, user.ChangePassword(context.Background(), "newsecret1", fakeHasher{}))
	require.NoError(t, user.UpdateDni("87654321"))

	err := user.ResetToTemporaryPassword(context.Background(), fakeHasher{})
	require.NoError(t, err)

	assert.True(t, user.IsPasswordTemporary())
	assert.True(t, user.VerifyPassword(context.Background(), "87654321", fakeHasher{}),
		"reset uses the dni held at reset time")
}

func TestUpdateDni_InvalidValueRejected(t *testing.T) {
	user := newTestUser(t)

	err := user.UpdateDni("12x45678")
	require.Error(t, err)
	assert.Equal(t, "12345678", user.Dni().Value())
}

func TestUpdateEmail_NormalizesAndTouches(t *testing.T) {
	user := newTestUser(t)

	require.NoError(t, user.UpdateEmail(" NEW@x.com "))
	assert.Equal(t, "new@x.com", user.Email().Value())

	_, updated := user.UpdatedAt()
	assert.True(t, updated)
}

func TestUpdateProfile_EmptyMeansAbsent(t *testing.T) {
	user := newTestUser(t)

	user.UpdateProfile("", "")
	_, updated := user.UpdatedAt()
	assert.False(t, updated, "no-op update must not bump updatedAt")

	user.UpdateProfile("Jane", "")
	assert.Equal(t, "Jane", user.Name())
	assert.Equal(t, "Doe", user.LastName())

	_, updated = user.UpdatedAt()
	assert.True(t, updated)
}

func TestFromExisting_RestoresPasswordVariant(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	user, err := entity.FromExisting("id-9", entity.ExistingUserProps{
		Name:                "Jane",
		LastName:            "Roe",
		Email:               "jane@x.com",
		Dni:                 "11112222",
		PasswordHash:        "H:somesecret1",
		IsPasswordTemporary: false,
	}, createdAt)
	require.NoError(t, err)

	assert.Equal(t, "id-9", user.ID())
	assert.Equal(t, createdAt, user.CreatedAt())
	assert.False(t, user.IsPasswordTemporary())
	assert.True(t, user.VerifyPassword(context.Background(), "somesecret1", fakeHasher{}))
}

func TestFromExisting_RejectsCorruptedEmail(t *testing.T) {
	_, err := entity.FromExisting("id-9", entity.ExistingUserProps{
		Name:         "Jane",
		LastName:     "Roe",
		Email:        "broken",
		Dni:          "11112222",
		PasswordHash: "H:x",
	}, time.Now())
	require.Error(t, err)
}

func TestRehydrate_IsTotal(t *testing.T) {
	email, _ := valueobject.NewEmail("jane@x.com")
	dni, _ := valueobject.NewDni("11112222")
	updatedAt := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)

	user := entity.Rehydrate(entity.RehydrateProps{
		ID:        "id-7",
		Name:      "Jane",
		LastName:  "Roe",
		Email:     email,
		Dni:       dni,
		Password:  valueobject.RehydratePassword("H:pw", true),
		CreatedAt: updatedAt.Add(-time.Hour),
		UpdatedAt: updatedAt,
	})

	got, ok := user.UpdatedAt()
	assert.True(t, ok)
	assert.Equal(t, updatedAt, got)
	assert.True(t, user.IsPasswordTemporary())
}
