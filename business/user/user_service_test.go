package user

import (
	"context"
	"testing"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/repository/postgres"
	"github.com/it-is-Aman/ram-enterprise/internal/testutil"
	"github.com/it-is-Aman/ram-enterprise/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTokenStore struct {
	tokens map[string]domain.Session
}

func (m *memoryTokenStore) StoreToken(_ context.Context, token string, session domain.Session, _ time.Duration) error {
	m.tokens[token] = session
	return nil
}

func (m *memoryTokenStore) DeleteToken(_ context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

func (m *memoryTokenStore) RevokeUser(_ context.Context, userID string) error {
	for token, session := range m.tokens {
		if session.UserID == userID {
			delete(m.tokens, token)
		}
	}
	return nil
}

func newService(t *testing.T) (*userService, *memoryTokenStore) {
	t.Helper()
	utils.InitJWT("0123456789abcdef0123", time.Hour)

	store := &memoryTokenStore{tokens: map[string]domain.Session{}}
	db := testutil.NewDB(t)
	return NewUserService(postgres.NewUserRepository(db), store, validator.New(), time.Hour), store
}

func TestRegister(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Asha", Email: " Asha@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.NotEqual(t, "secret1", user.Password)

	_, err = svc.Register(ctx, RegisterInput{Name: "Other", Email: "asha@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.Register(ctx, RegisterInput{Name: "Short", Email: "short@example.com", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{Name: "Bad", Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLoginAndLogout(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "asha@example.com", "wrong-password", "", "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret1", "", "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	token, user, err := svc.Login(ctx, "asha@example.com", "secret1", "127.0.0.1", "test")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	require.Contains(t, store.tokens, token)

	claims, err := utils.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, claims.Role)

	require.NoError(t, svc.Logout(ctx, token))
	assert.NotContains(t, store.tokens, token)
}

func TestUpdateProfileAndPassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Name: "Ravi", Email: "ravi@example.com", Password: "secret1"})
	require.NoError(t, err)

	address := "12 MG Road"
	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileInput{Address: &address})
	require.NoError(t, err)
	assert.Equal(t, "12 MG Road", updated.Address)
	assert.Equal(t, "Asha", updated.Name)

	taken := "ravi@example.com"
	_, err = svc.UpdateProfile(ctx, user.ID, ProfileInput{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "wrong", "newsecret"), domain.ErrValidation)
	require.NoError(t, svc.ChangePassword(ctx, user.ID, "secret1", "newsecret"))

	_, _, err = svc.Login(ctx, "asha@example.com", "newsecret", "", "")
	assert.NoError(t, err)
}

func TestAdminOperations(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	admin, err := svc.Register(ctx, RegisterInput{Name: "Admin", Email: "admin@example.com", Password: "secret1"})
	require.NoError(t, err)
	customer, err := svc.Register(ctx, RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)

	promoted, err := svc.UpdateUserRole(ctx, admin.ID, customer.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, promoted.Role)

	_, err = svc.UpdateUserRole(ctx, admin.ID, customer.ID, "superuser")
	assert.ErrorIs(t, err, domain.ErrValidation)

	page, err := svc.ListUsers(ctx, domain.UserFilter{PageQuery: domain.PageQuery{Page: 1, Limit: 10}, Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination.TotalItems)

	assert.ErrorIs(t, svc.DeleteUser(ctx, admin.ID, admin.ID), domain.ErrValidation)
	require.NoError(t, svc.DeleteUser(ctx, admin.ID, customer.ID))

	_, err = svc.GetUser(ctx, customer.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoleChangeAndDeleteRevokeSessions(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	owner, err := svc.Register(ctx, RegisterInput{Name: "Owner", Email: "owner@example.com", Password: "secret1"})
	require.NoError(t, err)
	staff, err := svc.Register(ctx, RegisterInput{Name: "Staff", Email: "staff@example.com", Password: "secret1"})
	require.NoError(t, err)
	buyer, err := svc.Register(ctx, RegisterInput{Name: "Buyer", Email: "buyer@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.UpdateUserRole(ctx, owner.ID, staff.ID, domain.RoleAdmin)
	require.NoError(t, err)

	staffToken, _, err := svc.Login(ctx, "staff@example.com", "secret1", "", "")
	require.NoError(t, err)
	buyerToken, _, err := svc.Login(ctx, "buyer@example.com", "secret1", "", "")
	require.NoError(t, err)

	// Setting the role a user already has keeps their sessions.
	_, err = svc.UpdateUserRole(ctx, owner.ID, staff.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Contains(t, store.tokens, staffToken)

	demoted, err := svc.UpdateUserRole(ctx, owner.ID, staff.ID, domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, demoted.Role)
	assert.NotContains(t, store.tokens, staffToken)
	assert.Contains(t, store.tokens, buyerToken)

	require.NoError(t, svc.DeleteUser(ctx, owner.ID, buyer.ID))
	assert.NotContains(t, store.tokens, buyerToken)
}
