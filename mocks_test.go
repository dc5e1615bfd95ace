package auth_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	auth "github.com/bookly/go-auth"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) { m.Called(format, args) }
func (m *MockLogger) Info(format string, args ...any)  { m.Called(format, args) }
func (m *MockLogger) Warn(format string, args ...any)  { m.Called(format, args) }
func (m *MockLogger) Error(format string, args ...any) { m.Called(format, args) }

// MockIdentity implements auth.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() string {
	args := m.Called()
	return args.String(0)
}

// MockUserStore implements auth.UserStore for testing
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserStore) GetByUID(ctx context.Context, uid string) (*auth.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserStore) TrackAttemptedLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockMailer implements auth.Mailer and records every send
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

func testConfig() *auth.EnvConfig {
	return &auth.EnvConfig{
		SigningKey:         "test-signing-key",
		SigningMethod:      "HS256",
		AccessTokenTTL:     time.Hour,
		RefreshTokenTTL:    48 * time.Hour,
		BlocklistTTL:       time.Hour,
		VerificationMaxAge: 24 * time.Hour,
	}
}

func newTestBlocklist(t *testing.T) (*miniredis.Miniredis, *auth.RedisBlocklist) {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	blocklist := auth.NewRedisBlocklistWithClient(client, time.Hour)
	t.Cleanup(func() { blocklist.Close() })

	return mr, blocklist
}

func newTestTokenService(t *testing.T) (*auth.TokenServiceImpl, *miniredis.Miniredis) {
	t.Helper()

	mr, blocklist := newTestBlocklist(t)

	service, err := auth.NewTokenService(testConfig(), blocklist)
	require.NoError(t, err)

	return service, mr
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	_, err = db.NewCreateTable().Model((*auth.User)(nil)).IfNotExists().Exec(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() {
		db.NewDropTable().Model((*auth.User)(nil)).IfExists().Exec(context.Background())
	})

	return db
}

func testIdentity(uid, email, role string) auth.Identity {
	return auth.NewIdentity(&auth.User{
		UID:      mustUUID(uid),
		Username: email,
		Email:    email,
		Role:     role,
	})
}

func mustUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

type capturedEmail struct {
	To      []string
	Subject string
	Body    string
}

// captureMailer records sends on a channel so tests can wait for the async
// dispatch.
type captureMailer struct {
	sent chan capturedEmail
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{sent: make(chan capturedEmail, 4)}
}

func (m *captureMailer) Send(_ context.Context, to []string, subject, htmlBody string) error {
	m.sent <- capturedEmail{To: to, Subject: subject, Body: htmlBody}
	return nil
}

func (m *captureMailer) waitForEmail(t *testing.T) capturedEmail {
	t.Helper()

	select {
	case email := <-m.sent:
		return email
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for email dispatch")
		return capturedEmail{}
	}
}
