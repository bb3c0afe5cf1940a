package service

import (
	"context"
	"testing"
	"time"

	"github.com/cittafutura/booking-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuth(db *memDB) AuthService {
	return NewAuthService(memUsers{db}, testSecret, time.Hour)
}

func TestRegister_HashesPasswordAndIssuesToken(t *testing.T) {
	db := newMemDB()
	svc := newAuth(db)

	user, token, err := svc.Register(context.Background(), "  Ada@Example.org ", "s3cret!", nil)

	require.NoError(t, err)
	assert.Equal(t, "ada@example.org", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "s3cret!", user.PasswordHash)
	assert.NotEmpty(t, token)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestRegister_EmailTaken(t *testing.T) {
	db := newMemDB()
	svc := newAuth(db)
	_, _, err := svc.Register(context.Background(), "ada@example.org", "pw", nil)
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "ADA@example.org", "other", nil)

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	db := newMemDB()
	svc := newAuth(db)
	_, _, err := svc.Register(context.Background(), "ada@example.org", "correct horse", nil)
	require.NoError(t, err)

	_, token, err := svc.Login(context.Background(), "Ada@example.org", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(context.Background(), "ada@example.org", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.org", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_GuestAccountCannotLogin(t *testing.T) {
	db := newMemDB()
	require.NoError(t, memUsers{db}.Create(context.Background(), nil, &models.User{Email: "guest@example.org", Role: models.RoleUser}))
	svc := newAuth(db)

	_, _, err := svc.Login(context.Background(), "guest@example.org", "")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	db := newMemDB()
	svc := newAuth(db)
	user, _, err := svc.Register(context.Background(), "ada@example.org", "pw", nil)
	require.NoError(t, err)

	me, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, me.Email)

	_, err = svc.Me(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestParseToken_Rejections(t *testing.T) {
	svc := newAuth(newMemDB())

	_, err := svc.ParseToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1, Role: models.RoleAdmin}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ParseToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ParseToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ParseToken(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEnsureAdmin(t *testing.T) {
	db := newMemDB()
	svc := newAuth(db)

	created, err := svc.EnsureAdmin(context.Background(), " Admin@Example.org", "admin123!")
	require.NoError(t, err)
	assert.True(t, created)

	user, _, err := svc.Login(context.Background(), "admin@example.org", "admin123!")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	created, err = svc.EnsureAdmin(context.Background(), "admin@example.org", "changed")
	require.NoError(t, err)
	assert.False(t, created)
	_, _, err = svc.Login(context.Background(), "admin@example.org", "admin123!")
	assert.NoError(t, err)
}

func TestEnsureAdmin_LeavesExistingUserAlone(t *testing.T) {
	db := newMemDB()
	svc := newAuth(db)
	_, _, err := svc.Register(context.Background(), "ada@example.org", "pw", nil)
	require.NoError(t, err)

	created, err := svc.EnsureAdmin(context.Background(), "ada@example.org", "admin123!")
	require.NoError(t, err)
	assert.False(t, created)

	user, _, err := svc.Login(context.Background(), "ada@example.org", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}
