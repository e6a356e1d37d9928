package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/acadport/acadport-api/internal/models"
	appErrors "github.com/acadport/acadport-api/pkg/errors"
)

type fakeAuthRepo struct {
	usersByEmail map[string]*models.User
	usersByID    map[string]*models.User
	departments  map[string]*models.Department
	lastLoginFor string
}

func (f *fakeAuthRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.usersByID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) FindDepartment(_ context.Context, id string) (*models.Department, error) {
	if d, ok := f.departments[id]; ok {
		return d, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) UpdateLastLogin(_ context.Context, id string, _ time.Time) error {
	f.lastLoginFor = id
	return nil
}

func hashPassword(t *testing.T, raw string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func testAuthService(repo *fakeAuthRepo) *AuthService {
	return NewAuthService(repo, nil, zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "acadport-test",
	})
}

func TestLogin_Success(t *testing.T) {
	user := &models.User{
		ID:           "user-1",
		Email:        "hod@college.edu",
		PasswordHash: hashPassword(t, "secret123"),
		FullName:     "Head of Department",
		Role:         models.RoleAdmin,
		DepartmentID: "dep-1",
		Active:       true,
	}
	repo := &fakeAuthRepo{usersByEmail: map[string]*models.User{user.Email: user}}
	svc := testAuthService(repo)

	got, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)

	assert.NotEmpty(t, got.AccessToken)
	assert.Equal(t, int64(3600), got.ExpiresIn)
	assert.Equal(t, "dep-1", got.User.DepartmentID)
	assert.Equal(t, "user-1", repo.lastLoginFor)

	claims, err := svc.ValidateToken(got.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "dep-1", claims.DepartmentID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	user := &models.User{
		ID:           "user-1",
		Email:        "hod@college.edu",
		PasswordHash: hashPassword(t, "secret123"),
		Active:       true,
	}
	repo := &fakeAuthRepo{usersByEmail: map[string]*models.User{user.Email: user}}
	svc := testAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := testAuthService(&fakeAuthRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@college.edu", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLogin_InactiveAccount(t *testing.T) {
	user := &models.User{
		ID:           "user-1",
		Email:        "hod@college.edu",
		PasswordHash: hashPassword(t, "secret123"),
		Active:       false,
	}
	repo := &fakeAuthRepo{usersByEmail: map[string]*models.User{user.Email: user}}
	svc := testAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestLogin_InvalidPayload(t *testing.T) {
	svc := testAuthService(&fakeAuthRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: ""})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := testAuthService(&fakeAuthRepo{})

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateToken_Expired(t *testing.T) {
	user := &models.User{
		ID:           "user-1",
		Email:        "hod@college.edu",
		PasswordHash: hashPassword(t, "secret123"),
		Active:       true,
	}
	repo := &fakeAuthRepo{usersByEmail: map[string]*models.User{user.Email: user}}

	issuer := NewAuthService(repo, nil, zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Nanosecond,
	})
	resp, err := issuer.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = issuer.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestMe(t *testing.T) {
	user := &models.User{
		ID:           "user-1",
		Email:        "hod@college.edu",
		FullName:     "Head of Department",
		Role:         models.RoleAdmin,
		DepartmentID: "dep-1",
		Active:       true,
	}
	repo := &fakeAuthRepo{
		usersByID:   map[string]*models.User{user.ID: user},
		departments: map[string]*models.Department{"dep-1": {ID: "dep-1", Name: "Computer Science"}},
	}
	svc := testAuthService(repo)

	got, err := svc.Me(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Head of Department", got.FullName)
	require.NotNil(t, got.Department)
	assert.Equal(t, "Computer Science", got.Department.Name)

	_, err = svc.Me(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMe_DepartmentLookupFailureIsNonFatal(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "hod@college.edu", DepartmentID: "dep-1", Active: true}
	repo := &fakeAuthRepo{usersByID: map[string]*models.User{user.ID: user}}
	svc := testAuthService(repo)

	got, err := svc.Me(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, got.Department)
	assert.Equal(t, "dep-1", got.DepartmentID)
}
