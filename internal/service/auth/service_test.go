package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/billing-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/billing-backend-go/internal/domain/team"
	"github.com/cmlabs-hris/billing-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/billing-backend-go/internal/pkg/jwt"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]user.User{}}
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return user.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	newUser.ID = f.nextID
	newUser.CreatedAt = time.Now()
	newUser.UpdatedAt = newUser.CreatedAt
	f.users[newUser.ID] = newUser
	return newUser, nil
}

func (f *fakeUserRepo) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.users {
		if u.Email == email {
			provider := "google"
			u.OAuthProvider = &provider
			u.OAuthProviderID = &googleID
			u.EmailVerified = true
			f.users[id] = u
			return u, nil
		}
	}
	return user.User{}, pgx.ErrNoRows
}

func (f *fakeUserRepo) IsAdmin(ctx context.Context, id int64) (bool, error) {
	u, err := f.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return u.IsAdmin, nil
}

type fakeTeamRepo struct {
	teams []team.Team
}

func (f *fakeTeamRepo) Create(ctx context.Context, newTeam team.Team) (team.Team, error) {
	newTeam.ID = int64(len(f.teams) + 1)
	f.teams = append(f.teams, newTeam)
	return newTeam, nil
}

func (f *fakeTeamRepo) ListByUserID(ctx context.Context, userID int64) ([]team.Team, error) {
	var out []team.Team
	for _, t := range f.teams {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type storedToken struct {
	userID  int64
	revoked bool
	session auth.SessionTrackingRequest
}

type fakeRefreshStore struct {
	tokens      map[string]*storedToken
	purgeCutoff time.Time
	createErr   error
}

func newFakeRefreshStore() *fakeRefreshStore {
	return &fakeRefreshStore{tokens: map[string]*storedToken{}}
}

func (f *fakeRefreshStore) CreateRefreshToken(ctx context.Context, userID int64, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &storedToken{userID: userID, session: session}
	return nil
}

func (f *fakeRefreshStore) IsRefreshTokenRevoked(ctx context.Context, token string) (int64, bool, error) {
	st, ok := f.tokens[token]
	if !ok {
		return 0, false, pgx.ErrNoRows
	}
	return st.userID, st.revoked, nil
}

func (f *fakeRefreshStore) RevokeRefreshToken(ctx context.Context, token string) error {
	if st, ok := f.tokens[token]; ok {
		st.revoked = true
	}
	return nil
}

func (f *fakeRefreshStore) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	f.purgeCutoff = cutoff
	var n int64
	for k, st := range f.tokens {
		if st.revoked {
			delete(f.tokens, k)
			n++
		}
	}
	return n, nil
}

type authFixture struct {
	svc     *AuthServiceImpl
	tx      *fakeTransactor
	users   *fakeUserRepo
	teams   *fakeTeamRepo
	store   *fakeRefreshStore
	session auth.SessionTrackingRequest
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp, false)
	require.NoError(t, err)

	f := &authFixture{
		tx:      &fakeTransactor{},
		users:   newFakeUserRepo(),
		teams:   &fakeTeamRepo{},
		store:   newFakeRefreshStore(),
		session: auth.SessionTrackingRequest{IPAddress: "127.0.0.1", UserAgent: "Mozilla/5.0"},
	}
	f.svc = NewAuthService(f.tx, f.users, f.teams, jwtService, f.store)
	f.svc.bcryptCost = bcrypt.MinCost
	return f
}

func (f *authFixture) seedUser(t *testing.T, email, password string, isAdmin bool) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)
	u, err := f.users.Create(context.Background(), user.User{
		Email:        email,
		Name:         "Seeded",
		PasswordHash: &hashed,
		Locale:       "en",
		IsAdmin:      isAdmin,
	})
	require.NoError(t, err)
	return u
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tz := "Asia/Riyadh"
	resp, err := f.svc.Register(ctx, auth.RegisterRequest{
		Name:            "Alice",
		Email:           "alice@example.com",
		Password:        "SecurePass123!",
		ConfirmPassword: "SecurePass123!",
		Locale:          "en",
		Timezone:        &tz,
	}, f.session)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, 1, f.tx.calls)

	created, err := f.users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", created.Name)
	assert.True(t, created.HasPassword())
	assert.NotEqual(t, "SecurePass123!", *created.PasswordHash)
	assert.Equal(t, &tz, created.Timezone)
	assert.False(t, created.IsAdmin)

	require.Len(t, f.teams.teams, 1)
	assert.Equal(t, "Alice's Team", f.teams.teams[0].Name)
	assert.True(t, f.teams.teams[0].IsPersonal)
	assert.Equal(t, created.ID, f.teams.teams[0].UserID)

	stored, ok := f.store.tokens[resp.RefreshToken]
	require.True(t, ok)
	assert.Equal(t, created.ID, stored.userID)
	assert.Equal(t, f.session, stored.session)
}

func TestAuthService_Register_EmailExists(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "taken@example.com", "password123", false)

	_, err := f.svc.Register(context.Background(), auth.RegisterRequest{
		Name:     "Bob",
		Email:    "taken@example.com",
		Password: "password123",
		Locale:   "en",
	}, f.session)
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	assert.Empty(t, f.teams.teams)
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "login@example.com", "password123", false)

	t.Run("success", func(t *testing.T) {
		resp, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "login@example.com", Password: "password123"}, f.session)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Greater(t, resp.AccessTokenExpiresIn, int64(0))
		assert.Greater(t, resp.RefreshTokenExpiresIn, resp.AccessTokenExpiresIn)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "login@example.com", Password: "wrongpassword"}, f.session)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "nobody@example.com", Password: "password123"}, f.session)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("google-only account", func(t *testing.T) {
		_, err := f.users.Create(context.Background(), user.User{Email: "g@example.com", Name: "G", Locale: "en"})
		require.NoError(t, err)

		_, err = f.svc.Login(context.Background(), auth.LoginRequest{Email: "g@example.com", Password: "password123"}, f.session)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAuthService_Login_TokenStoreFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "login@example.com", "password123", false)
	f.store.createErr = errors.New("connection reset")

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "login@example.com", Password: "password123"}, f.session)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_LoginWithGoogle_NewUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.svc.LoginWithGoogle(ctx, auth.GoogleProfile{
		GoogleID: "google-id-123",
		Email:    "newgoogleuser@example.com",
		Name:     "Grace",
	}, f.session)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	created, err := f.users.GetByEmail(ctx, "newgoogleuser@example.com")
	require.NoError(t, err)
	assert.True(t, created.IsLinkedTo("google"))
	assert.Equal(t, "google-id-123", *created.OAuthProviderID)
	assert.True(t, created.EmailVerified)
	assert.False(t, created.HasPassword())
	assert.Equal(t, "en", created.Locale)

	require.Len(t, f.teams.teams, 1)
	assert.Equal(t, "Grace's Team", f.teams.teams[0].Name)
}

func TestAuthService_LoginWithGoogle_ExistingUserGetsLinked(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	existing := f.seedUser(t, "existing@example.com", "password123", false)

	_, err := f.svc.LoginWithGoogle(ctx, auth.GoogleProfile{GoogleID: "google-id-456", Email: "existing@example.com"}, f.session)
	require.NoError(t, err)

	linked, err := f.users.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.True(t, linked.IsLinkedTo("google"))
	assert.True(t, linked.HasPassword())
	assert.Empty(t, f.teams.teams)
}

func TestAuthService_RefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.seedUser(t, "refresh@example.com", "password123", true)

	loginResp, err := f.svc.Login(ctx, auth.LoginRequest{Email: "refresh@example.com", Password: "password123"}, f.session)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		resp, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: loginResp.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: loginResp.AccessToken})
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "not-a-jwt"})
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("revoked", func(t *testing.T) {
		require.NoError(t, f.svc.Logout(ctx, loginResp.RefreshToken))
		_, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: loginResp.RefreshToken})
		assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
	})
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.seedUser(t, "logout@example.com", "password123", false)

	loginResp, err := f.svc.Login(ctx, auth.LoginRequest{Email: "logout@example.com", Password: "password123"}, f.session)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, loginResp.RefreshToken))
	_, revoked, err := f.store.IsRefreshTokenRevoked(ctx, loginResp.RefreshToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Second logout and unknown tokens are no-ops
	assert.NoError(t, f.svc.Logout(ctx, loginResp.RefreshToken))
	assert.NoError(t, f.svc.Logout(ctx, "unknown"))
}

func TestAuthService_IsAdmin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "admin@example.com", "password123", true)
	member := f.seedUser(t, "member@example.com", "password123", false)

	isAdmin, err := f.svc.IsAdmin(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = f.svc.IsAdmin(ctx, member.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	_, err = f.svc.IsAdmin(ctx, 9999)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAuthService_PurgeRefreshTokens(t *testing.T) {
	f := newAuthFixture(t)
	fixed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }
	f.store.tokens["a"] = &storedToken{userID: 1, revoked: true}
	f.store.tokens["b"] = &storedToken{userID: 1}

	deleted, err := f.svc.PurgeRefreshTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, fixed, f.store.purgeCutoff)
	assert.Contains(t, f.store.tokens, "b")
}
