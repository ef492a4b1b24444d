package staff

import (
	"context"
	"testing"
	"time"

	"studiobook/internal/database"
	"studiobook/internal/domain/studio"
	"studiobook/internal/logging"
	"studiobook/internal/pkg/apperr"
	"studiobook/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Service, *jwt.Service, *studio.Studio) {
	t.Helper()
	db, err := database.OpenMemory("staff_" + uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&studio.Studio{}, &User{}))

	studios := studio.NewRepository(db)
	st := studio.New("Sunset Sound")
	require.NoError(t, studios.Create(context.Background(), st))

	tokens := jwt.New("test_secret_key_32_characters_min", time.Hour)
	return NewService(NewRepository(db), studios, tokens, logging.Discard()), tokens, st
}

func TestService_CreateAndLogin(t *testing.T) {
	svc, tokens, st := setup(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, st.ID, CreateRequest{Email: " Owner@Example.com ", Password: "s3cret-pass", Role: RoleOwner})
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", u.Email)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	res, err := svc.Login(ctx, "OWNER@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, st.ID, claims.StudioID)
	assert.Equal(t, "owner", claims.Role)
}

func TestService_Login_Rejections(t *testing.T) {
	svc, _, st := setup(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, st.ID, CreateRequest{Email: "eng@example.com", Password: "correct-horse", Role: RoleStaff})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "eng@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = svc.Login(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Create_Rejections(t *testing.T) {
	svc, _, st := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, st.ID, CreateRequest{Email: "a@example.com", Password: "long-enough", Role: RoleStaff})
	require.NoError(t, err)

	_, err = svc.Create(ctx, st.ID, CreateRequest{Email: "A@example.com", Password: "long-enough", Role: RoleStaff})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Create(ctx, st.ID, CreateRequest{Email: "b@example.com", Password: "short", Role: RoleStaff})
	assert.ErrorIs(t, err, ErrInvalidAccount)

	_, err = svc.Create(ctx, st.ID, CreateRequest{Email: "c@example.com", Password: "long-enough", Role: Role("admin")})
	assert.ErrorIs(t, err, ErrInvalidAccount)

	_, err = svc.Create(ctx, st.ID+100, CreateRequest{Email: "d@example.com", Password: "long-enough", Role: RoleOwner})
	assert.ErrorIs(t, err, studio.ErrStudioNotFound)
}
