package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubstats/internal/auth"
	"github.com/clubstats/internal/domain"
)

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := f.users[user.Email]; ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserExists, user.Email)
	}
	f.nextID++
	copied := *user
	copied.ID = f.nextID
	f.users[copied.Email] = &copied
	result := copied
	return &result, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func newTestAuthService(repo *fakeUserRepo) *AuthService {
	tokens := auth.NewTokenManager("test-secret", 30*time.Minute)
	return NewAuthService(repo, tokens, testLogger())
}

func TestSignupLoginRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	user, err := svc.Signup(ctx, domain.SignupRequest{
		Name:     "Coach Carter",
		Email:    "coach@club.example",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	// Stored hash is never the raw password
	assert.NotEqual(t, "hunter22", repo.users["coach@club.example"].PasswordHash)

	token, err := svc.Login(ctx, domain.LoginRequest{Email: "coach@club.example", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	current, err := svc.CurrentUser(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "coach@club.example", current.Email)
}

func TestSignupValidatesPayload(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Signup(ctx, domain.SignupRequest{Name: "No Email", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Signup(ctx, domain.SignupRequest{Name: "Bad Email", Email: "not-an-email", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())
	ctx := context.Background()
	req := domain.SignupRequest{Name: "Coach", Email: "coach@club.example", Password: "hunter22"}

	_, err := svc.Signup(ctx, req)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, req)
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Signup(ctx, domain.SignupRequest{Name: "Coach", Email: "coach@club.example", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "coach@club.example", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@club.example", Password: "hunter22"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestCurrentUserRejectsBadToken(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	_, err := svc.CurrentUser(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCurrentUserRejectsTokenForDeletedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Signup(ctx, domain.SignupRequest{Name: "Coach", Email: "coach@club.example", Password: "hunter22"})
	require.NoError(t, err)
	token, err := svc.Login(ctx, domain.LoginRequest{Email: "coach@club.example", Password: "hunter22"})
	require.NoError(t, err)

	delete(repo.users, "coach@club.example")

	_, err = svc.CurrentUser(ctx, token.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
