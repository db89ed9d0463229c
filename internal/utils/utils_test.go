package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/apperr"
)

const testSecret = "test-secret-0123456789"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "hunter23"))
	assert.False(t, VerifyPassword("not-a-hash", "hunter22"))

	other, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salt must differ per hash")

	BurnPasswordCheck("anything", bcrypt.MinCost)
}

func TestTokenRoundTrip(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens := NewTokens(testSecret).WithClock(func() time.Time { return issuedAt })

	raw, exp, err := tokens.Issue(42)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(7*24*time.Hour), exp)

	id, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	almost := tokens.WithClock(func() time.Time { return exp.Add(-time.Minute) })
	id, err = almost.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestTokenExpires(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens := NewTokens(testSecret).WithClock(func() time.Time { return issuedAt })
	raw, exp, err := tokens.Issue(7)
	require.NoError(t, err)

	later := tokens.WithClock(func() time.Time { return exp.Add(time.Second) })
	_, err = later.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsForeignSignature(t *testing.T) {
	raw, _, err := NewTokens("another-secret-987654321").Issue(1)
	require.NoError(t, err)

	_, err = NewTokens(testSecret).Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokens(testSecret).Verify("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsOtherAlgorithmsAndSubjects(t *testing.T) {
	tokens := NewTokens(testSecret)
	claims := jwt.RegisteredClaims{
		Subject:   "9",
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Verify(none)
	require.ErrorIs(t, err, ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = tokens.Verify(hs512)
	require.ErrorIs(t, err, ErrInvalidToken)

	claims.Subject = "not-a-number"
	bad, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = tokens.Verify(bad)
	require.ErrorIs(t, err, ErrInvalidToken)

	claims.Subject = "9"
	claims.ExpiresAt = nil
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = tokens.Verify(noExp)
	require.ErrorIs(t, err, ErrInvalidToken)
}

type sampleInput struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Quantity *int     `json:"quantity" validate:"omitnil,gte=0"`
	Unit     string   `json:"unit" validate:"omitempty,oneof=pcs kg"`
	Tags     []sample `json:"tags" validate:"dive"`
}

type sample struct {
	Label string `json:"label" validate:"required"`
}

func TestValidatorReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()
	neg := -1
	err := v.Struct(sampleInput{
		Email:    "nope",
		Quantity: &neg,
		Unit:     "tons",
		Tags:     []sample{{Label: "ok"}, {}},
	}, "invalid sample")
	require.Error(t, err)

	typed := apperr.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, apperr.CodeValidation, typed.Code())
	assert.Equal(t, "invalid sample", typed.Message())

	fields, ok := typed.Details().([]apperr.FieldError)
	require.True(t, ok)
	byField := map[string]string{}
	for _, f := range fields {
		byField[f.Field] = f.Message
	}
	assert.Equal(t, "is required", byField["name"])
	assert.Equal(t, "must be a valid email address", byField["email"])
	assert.Equal(t, "must be greater than or equal to 0", byField["quantity"])
	assert.Equal(t, "must be one of: pcs, kg", byField["unit"])
	assert.Equal(t, "is required", byField["tags[1].label"])
}

func TestValidatorPassesValidInput(t *testing.T) {
	qty := 2
	err := NewValidator().Struct(sampleInput{Name: "Milk", Email: "a@b.co", Quantity: &qty}, "invalid")
	require.NoError(t, err)
}
