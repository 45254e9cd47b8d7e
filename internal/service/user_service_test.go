package service

import (
	"PassVault/internal/model"
	"PassVault/internal/repo"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// мок для repo.UserRepository
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.user(m.Called(ctx, username))
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, id uuid.UUID, email, passwordHash string) error {
	return m.Called(ctx, id, email, passwordHash).Error(0)
}

func (m *mockUserRepo) user(args mock.Arguments) (*model.User, error) {
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	m := new(mockUserRepo)
	svc := NewUserService(m, nopLogger())
	in := RegisterInput{Name: "John", Email: "John@Example.com", Username: "JOHN", Password: "p@ss"}

	t.Run("ok when email and username free", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "john@example.com").Return(nil, repo.ErrNotFound).Once()
		m.On("GetUserByUsername", mock.Anything, "john").Return(nil, repo.ErrNotFound).Once()
		created := &model.User{ID: uuid.New(), Email: "john@example.com", Username: "john"}
		m.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "john@example.com" && u.Username == "john" &&
				bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("p@ss")) == nil
		})).Return(created, nil).Once()

		user, err := svc.Register(ctx, in)
		assert.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
		m.AssertExpectations(t)
	})

	t.Run("conflict when email taken", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "john@example.com").Return(&model.User{ID: uuid.New()}, nil).Once()

		user, err := svc.Register(ctx, in)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrEmailTaken)
		m.AssertExpectations(t)
	})

	t.Run("conflict when username taken", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "john@example.com").Return(nil, repo.ErrNotFound).Once()
		m.On("GetUserByUsername", mock.Anything, "john").Return(&model.User{ID: uuid.New()}, nil).Once()

		_, err := svc.Register(ctx, in)
		assert.ErrorIs(t, err, ErrUsernameTaken)
		m.AssertExpectations(t)
	})

	t.Run("validation", func(t *testing.T) {
		m.ExpectedCalls = nil
		for _, bad := range []RegisterInput{
			{Email: "a@b.c", Username: "a", Password: "p"},
			{Name: "A", Username: "a", Password: "p"},
			{Name: "A", Email: "nope", Username: "a", Password: "p"},
			{Name: "A", Email: "a@b.c", Password: "p"},
			{Name: "A", Email: "a@b.c", Username: "a", Password: " "},
		} {
			_, err := svc.Register(ctx, bad)
			assert.ErrorIs(t, err, ErrValidation)
		}
		m.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "john@example.com").Return(nil, errors.New("db down")).Once()

		_, err := svc.Register(ctx, in)
		assert.ErrorIs(t, err, ErrServer)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	m := new(mockUserRepo)
	svc := NewUserService(m, nopLogger())

	// готовим хеш для пароля "secret"
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	alice := &model.User{ID: uuid.New(), Email: "alice@example.com", Password: string(hash)}

	t.Run("ok with valid credentials", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(alice, nil).Once()

		user, err := svc.Login(ctx, "Alice@example.com", "secret")
		assert.NoError(t, err)
		assert.Equal(t, alice.ID, user.ID)
		m.AssertExpectations(t)
	})

	t.Run("invalid password", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(alice, nil).Once()

		user, err := svc.Login(ctx, "alice@example.com", "wrong")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByEmail", mock.Anything, "bob@example.com").Return(nil, repo.ErrNotFound).Once()

		_, err := svc.Login(ctx, "bob@example.com", "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_Profile(t *testing.T) {
	ctx := context.Background()
	m := new(mockUserRepo)
	svc := NewUserService(m, nopLogger())
	id := uuid.New()

	m.On("GetUserByID", mock.Anything, id).Return(nil, repo.ErrNotFound).Once()
	_, err := svc.Profile(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	m.On("GetUserByID", mock.Anything, id).Return(&model.User{ID: id, Name: "Ann"}, nil).Once()
	u, err := svc.Profile(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
}

func TestUserService_UpdateAccount(t *testing.T) {
	ctx := context.Background()
	m := new(mockUserRepo)
	svc := NewUserService(m, nopLogger())

	hash, _ := bcrypt.GenerateFromPassword([]byte("current"), bcrypt.MinCost)
	id := uuid.New()
	u := &model.User{ID: id, Email: "ann@example.com", Password: string(hash)}

	t.Run("nothing to update", func(t *testing.T) {
		m.ExpectedCalls = nil
		err := svc.UpdateAccount(ctx, id, AccountUpdate{Password: "current"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("wrong current password", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByID", mock.Anything, id).Return(u, nil).Once()

		err := svc.UpdateAccount(ctx, id, AccountUpdate{Email: strp("new@example.com"), Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		m.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("change email", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByID", mock.Anything, id).Return(u, nil).Once()
		m.On("GetUserByEmail", mock.Anything, "new@example.com").Return(nil, repo.ErrNotFound).Once()
		m.On("UpdateUser", mock.Anything, id, "new@example.com", "").Return(nil).Once()

		err := svc.UpdateAccount(ctx, id, AccountUpdate{Email: strp("New@Example.com"), Password: "current"})
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByID", mock.Anything, id).Return(u, nil).Once()
		m.On("GetUserByEmail", mock.Anything, "taken@example.com").Return(&model.User{ID: uuid.New()}, nil).Once()

		err := svc.UpdateAccount(ctx, id, AccountUpdate{Email: strp("taken@example.com"), Password: "current"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("change password", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByID", mock.Anything, id).Return(u, nil).Once()
		m.On("UpdateUser", mock.Anything, id, "", mock.MatchedBy(func(h string) bool {
			return bcrypt.CompareHashAndPassword([]byte(h), []byte("fresh")) == nil
		})).Return(nil).Once()

		err := svc.UpdateAccount(ctx, id, AccountUpdate{NewPassword: strp("fresh"), Password: "current"})
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
}
