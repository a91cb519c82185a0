package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/config"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testAuthConfig = &config.Config{
	JWTSecret:        "test-secret",
	JWTAccessExpiry:  15 * time.Minute,
	JWTRefreshExpiry: time.Hour,
}

func adminRows(id uuid.UUID, password string) *sqlmock.Rows {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return sqlmock.NewRows([]string{"id", "name", "email", "password", "role"}).
		AddRow(id.String(), "Ana", "ana@example.com", string(hash), models.RoleMaster)
}

func TestLogin_IssuesTokenPair(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db, testAuthConfig)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "admins"`).WillReturnRows(adminRows(id, "correct horse"))
	mock.ExpectQuery(`INSERT INTO "refresh_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "Ana@Example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, id, resp.Admin.ID)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte(testAuthConfig.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, id.String(), claims["sub"])
	assert.Equal(t, models.RoleMaster, claims["role"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db, testAuthConfig)

	mock.ExpectQuery(`SELECT \* FROM "admins"`).WillReturnRows(adminRows(uuid.New(), "correct horse"))

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ana@example.com", Password: "battery staple"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefresh_UnknownToken(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db, testAuthConfig)

	mock.ExpectQuery(`SELECT \* FROM "refresh_tokens"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: "nope"})
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
