package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sisconis/identity-api/internal/apperror"
	"github.com/sisconis/identity-api/internal/application"
	"github.com/sisconis/identity-api/internal/domain/entity"
	"github.com/sisconis/identity-api/internal/domain/repository"
)

// MockUserRepository is a testify mock of the repository port.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByDni(ctx context.Context, dni, excludeID string) (bool, error) {
	args := m.Called(ctx, dni, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Index(ctx context.Context, p repository.Pagination) ([]*entity.User, int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]*entity.User), args.Get(1).(int64), args.Error(2)
}

type stubIDGen struct{ id string }

func (s stubIDGen) NewID() string { return s.id }

type fakeHasher struct{}

func (fakeHasher) Hash(_ context.Context, plain string) (string, error) {
	return "H:" + plain, nil
}

func (fakeHasher) Compare(_ context.Context, plain, hash string) bool {
	return hash == "H:"+plain
}

func newService(repo *MockUserRepository) *application.UserService {
	return application.NewUserService(repo, fakeHasher{}, stubIDGen{id: "id-1"}, logrus.New(), nil, nil, nil, "users")
}

func existingUser(t *testing.T, id string) *entity.User {
	t.Helper()
	user, err := entity.NewUser(context.Background(), entity.CreateUserProps{
		Name:     "John",
		LastName: "Doe",
		Email:    "john@x.com",
		Dni:      "12345678",
	}, stubIDGen{id: id}, fakeHasher{})
	require.NoError(t, err)
	return user
}

func TestCreate_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	repo.On("ExistsByEmail", mock.Anything, "john@x.com", "").Return(false, nil)
	repo.On("ExistsByDni", mock.Anything, "12345678", "").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)

	dto, err := svc.Create(context.Background(), application.CreateUserInput{
		Name:     "John",
		LastName: "Doe",
		Email:    "John@X.com",
		Dni:      "12345678",
	})

	require.NoError(t, err)
	assert.Equal(t, "id-1", dto.ID)
	assert.Equal(t, "john@x.com", dto.Email)
	assert.True(t, dto.IsPasswordTemporary)
	assert.Nil(t, dto.UpdatedAt)
	repo.AssertExpectations(t)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	repo.On("ExistsByEmail", mock.Anything, "john@x.com", "").Return(true, nil)

	_, err := svc.Create(context.Background(), application.CreateUserInput{
		Name:     "John",
		LastName: "Doe",
		Email:    "john@x.com",
		Dni:      "12345678",
	})

	var dup *apperror.UserAlreadyExistsError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreate_DuplicateDni(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	repo.On("ExistsByEmail", mock.Anything, "john@x.com", "").Return(false, nil)
	repo.On("ExistsByDni", mock.Anything, "12345678", "").Return(true, nil)

	_, err := svc.Create(context.Background(), application.CreateUserInput{
		Name:     "John",
		LastName: "Doe",
		Email:    "john@x.com",
		Dni:      "12345678",
	})

	var dup *apperror.UserAlreadyExistsError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "dni", dup.Field)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreate_InvalidDniRejectedBeforeSave(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	repo.On("ExistsByEmail", mock.Anything, "john@x.com", "").Return(false, nil)
	repo.On("ExistsByDni", mock.Anything, "123", "").Return(false, nil)

	_, err := svc.Create(context.Background(), application.CreateUserInput{
		Name:     "John",
		LastName: "Doe",
		Email:    "john@x.com",
		Dni:      "123",
	})

	var invalid *apperror.InvalidDniError
	require.ErrorAs(t, err, &invalid)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdate_NotFound(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	repo.On("FindByID", mock.Anything, "missing").Return(nil, nil)

	_, err := svc.Update(context.Background(), "missing", application.UpdateUserInput{Name: "Jane"})

	var notFound *apperror.UserNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_PartialProfile(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)
	user := existingUser(t, "id-2")

	repo.On("FindByID", mock.Anything, "id-2").Return(user, nil)
	repo.On("Update", mock.Anything, user).Return(nil)

	dto, err := svc.Update(context.Background(), "id-2", application.UpdateUserInput{Name: "Jane"})

	require.NoError(t, err)
	assert.Equal(t, "Jane", dto.Name)
	assert.Equal(t, "Doe", dto.LastName, "absent field stays")
	assert.NotNil(t, dto.UpdatedAt)
	repo.AssertExpectations(t)
}

func TestChangePassword_WeakCandidateNotPersisted(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)
	user := existingUser(t, "id-2")

	repo.On("FindByID", mock.Anything, "id-2").Return(user, nil)

	_, err := svc.ChangePassword(context.Background(), "id-2", "weak")

	var invalid *apperror.InvalidPasswordError
	require.ErrorAs(t, err, &invalid)
	assert.True(t, user.IsPasswordTemporary(), "entity state untouched")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestChangePassword_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)
	user := existingUser(t, "id-2")

	repo.On("FindByID", mock.Anything, "id-2").Return(user, nil)
	repo.On("Update", mock.Anything, user).Return(nil)

	dto, err := svc.ChangePassword(context.Background(), "id-2", "newsecret1")

	require.NoError(t, err)
	assert.False(t, dto.IsPasswordTemporary)
	repo.AssertExpectations(t)
}

func TestResetPassword_RevertsToTemporary(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)
	user := existingUser(t, "id-2")
	require.NoError(t, user.ChangePassword(context.Background(), "newsecret1", fakeHasher{}))

	repo.On("FindByID", mock.Anything, "id-2").Return(user, nil)
	repo.On("Update", mock.Anything, user).Return(nil)

	err := svc.ResetPassword(context.Background(), "id-2")

	require.NoError(t, err)
	assert.True(t, user.IsPasswordTemporary())
	repo.AssertExpectations(t)
}

func TestChangeDni_ExcludesSelfFromUniquenessCheck(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)
	user := existingUser(t, "id-2")

	repo.On("FindByID", mock.Anything, "id-2").Return(user, nil)
	repo.On("ExistsByDni", mock.Anything, "12345678", "id-2").Return(false, nil)
	repo.On("Update", mock.Anything, user).Return(nil)

	dto, err := svc.ChangeDni(context.Background(), "id-2", "12345678")

	require.NoError(t, err)
	assert.Equal(t, "12345678", dto.Dni)
	repo.AssertExpectations(t)
}

func TestChangeDni_TakenByAnotherUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)
	user := existingUser(t, "id-2")

	repo.On("FindByID", mock.Anything, "id-2").Return(user, nil)
	repo.On("ExistsByDni", mock.Anything, "87654321", "id-2").Return(true, nil)

	_, err := svc.ChangeDni(context.Background(), "id-2", "87654321")

	var dup *apperror.UserAlreadyExistsError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "12345678", user.Dni().Value(), "dni unchanged")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDelete_NotFound(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	repo.On("FindByID", mock.Anything, "missing").Return(nil, nil)

	err := svc.Delete(context.Background(), "missing")

	var notFound *apperror.UserNotFoundError
	require.ErrorAs(t, err, &notFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)
	user := existingUser(t, "id-2")

	repo.On("FindByID", mock.Anything, "id-2").Return(user, nil)
	repo.On("Delete", mock.Anything, "id-2").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "id-2"))
	repo.AssertExpectations(t)
}

func TestGet_RepositoryErrorPropagates(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)
	boom := errors.New("connection refused")

	repo.On("FindByID", mock.Anything, "id-2").Return(nil, boom)

	_, err := svc.Get(context.Background(), "id-2")
	require.ErrorIs(t, err, boom)
}

func TestList_AppliesDefaults(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)
	user := existingUser(t, "id-2")

	expected := repository.Pagination{
		Page:      1,
		Limit:     10,
		OrderBy:   repository.OrderByCreatedAt,
		Direction: repository.DirectionDesc,
	}
	repo.On("Index", mock.Anything, expected).Return([]*entity.User{user}, int64(1), nil)

	page, err := svc.List(context.Background(), repository.Pagination{})

	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	repo.AssertExpectations(t)
}
