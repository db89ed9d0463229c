package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/apperr"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/service"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/testkit/storefakes"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/utils"
)

const testSecret = "service-test-secret-0123"

func newAuth(t *testing.T) (*service.AuthService, *storefakes.UserStore) {
	t.Helper()
	users := storefakes.NewUserStore()
	return service.NewAuthService(users, utils.NewTokens(testSecret), utils.NewValidator(), bcrypt.MinCost), users
}

func requireCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	require.Error(t, err)
	typed := apperr.As(err)
	require.NotNil(t, typed, "expected *apperr.Error, got %T: %v", err, err)
	assert.Equal(t, code, typed.Code(), typed.Error())
}

func register(t *testing.T, auth *service.AuthService, name, email string) *service.Session {
	t.Helper()
	sess, err := auth.Register(context.Background(), service.RegisterInput{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	return sess
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	auth, users := newAuth(t)

	sess := register(t, auth, "  Ana ", "  Ana@Example.COM ")
	assert.Equal(t, "Ana", sess.User.Name)
	assert.Equal(t, "ana@example.com", sess.User.Email)
	assert.Equal(t, model.RoleUser, sess.User.Role)
	assert.Equal(t, model.DietaryNone, sess.User.Dietary)
	assert.Empty(t, sess.User.PasswordHash)
	assert.NotEmpty(t, sess.Token)

	stored := users.Users[sess.User.ID]
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, utils.VerifyPassword(stored.PasswordHash, "secret1"))
}

func TestRegisterDuplicateLeavesOneRecord(t *testing.T) {
	auth, users := newAuth(t)
	register(t, auth, "Ana", "ana@example.com")

	_, err := auth.Register(context.Background(), service.RegisterInput{Name: "Ana 2", Email: "ANA@example.com", Password: "other12"})
	requireCode(t, err, apperr.CodeConflict)
	assert.Equal(t, 1, users.Count())
}

func TestRegisterValidation(t *testing.T) {
	auth, users := newAuth(t)

	_, err := auth.Register(context.Background(), service.RegisterInput{Email: "not-an-email", Password: "123"})
	requireCode(t, err, apperr.CodeValidation)

	fields := apperr.As(err).Details().([]apperr.FieldError)
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "password"}, names)
	assert.Zero(t, users.Count())
}

func TestAuthenticateIndistinguishableFailures(t *testing.T) {
	auth, _ := newAuth(t)
	register(t, auth, "Ana", "ana@example.com")
	ctx := context.Background()

	u, err := auth.Authenticate(ctx, "ANA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Empty(t, u.PasswordHash)

	_, wrongPw := auth.Authenticate(ctx, "ana@example.com", "nope")
	_, unknown := auth.Authenticate(ctx, "bob@example.com", "secret1")
	requireCode(t, wrongPw, apperr.CodeUnauthorized)
	requireCode(t, unknown, apperr.CodeUnauthorized)
	assert.Equal(t, wrongPw.Error(), unknown.Error())
}

func TestAuthenticateStoreFailureIsInternal(t *testing.T) {
	auth, users := newAuth(t)
	users.Err = errors.New("connection reset")

	_, err := auth.Authenticate(context.Background(), "ana@example.com", "secret1")
	requireCode(t, err, apperr.CodeInternal)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	auth, _ := newAuth(t)
	created := register(t, auth, "Ana", "ana@example.com")

	sess, err := auth.Login(context.Background(), service.LoginInput{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(utils.SessionTTL), sess.ExpiresAt, time.Minute)

	u, err := auth.Identify(context.Background(), sess.Token)
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, u.ID)

}

func TestLoginWithMissingCredentialsIsUnauthorized(t *testing.T) {
	auth, _ := newAuth(t)
	register(t, auth, "Ana", "ana@example.com")

	for _, in := range []service.LoginInput{
		{Email: "ana@example.com"},
		{Password: "secret1"},
		{Email: "   ", Password: "secret1"},
		{},
	} {
		_, err := auth.Login(context.Background(), in)
		requireCode(t, err, apperr.CodeUnauthorized)
		assert.Equal(t, "invalid email or password", apperr.As(err).Message())
	}
}

func TestIdentifyFailures(t *testing.T) {
	auth, users := newAuth(t)
	sess := register(t, auth, "Ana", "ana@example.com")
	ctx := context.Background()

	_, err := auth.Identify(ctx, "")
	requireCode(t, err, apperr.CodeUnauthorized)

	_, err = auth.Identify(ctx, sess.Token+"x")
	requireCode(t, err, apperr.CodeUnauthorized)

	delete(users.Users, sess.User.ID)
	_, err = auth.Identify(ctx, sess.Token)
	requireCode(t, err, apperr.CodeUnauthorized)

	users.Err = errors.New("db down")
	_, err = auth.Identify(ctx, sess.Token)
	requireCode(t, err, apperr.CodeInternal)
}

func TestUpdateProfile(t *testing.T) {
	auth, users := newAuth(t)
	ana := register(t, auth, "Ana", "ana@example.com")
	ctx := context.Background()

	u, err := auth.UpdateProfile(ctx, ana.User.ID, service.UpdateProfileInput{Name: "Ana Maria", Dietary: "Vegan"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", u.Name)
	assert.Equal(t, "ana@example.com", u.Email, "empty email keeps the stored one")
	assert.Equal(t, model.DietaryVegan, u.Dietary)

	_, err = auth.UpdateProfile(ctx, ana.User.ID, service.UpdateProfileInput{NewPassword: "fresh123"})
	requireCode(t, err, apperr.CodeValidation)
	assert.Equal(t, "current password required", apperr.As(err).Message())

	_, err = auth.UpdateProfile(ctx, ana.User.ID, service.UpdateProfileInput{CurrentPassword: "wrong", NewPassword: "fresh123"})
	requireCode(t, err, apperr.CodeUnauthorized)
	assert.True(t, utils.VerifyPassword(users.Users[ana.User.ID].PasswordHash, "secret1"))

	_, err = auth.UpdateProfile(ctx, ana.User.ID, service.UpdateProfileInput{CurrentPassword: "secret1", NewPassword: "fresh123"})
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, "ana@example.com", "fresh123")
	require.NoError(t, err)

	_, err = auth.UpdateProfile(ctx, ana.User.ID, service.UpdateProfileInput{Dietary: "carnivore"})
	requireCode(t, err, apperr.CodeValidation)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	auth, _ := newAuth(t)
	ana := register(t, auth, "Ana", "ana@example.com")
	register(t, auth, "Bob", "bob@example.com")

	_, err := auth.UpdateProfile(context.Background(), ana.User.ID, service.UpdateProfileInput{Email: "BOB@example.com"})
	requireCode(t, err, apperr.CodeConflict)

	u, err := auth.UpdateProfile(context.Background(), ana.User.ID, service.UpdateProfileInput{Email: "ana.m@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ana.m@example.com", u.Email)
}
