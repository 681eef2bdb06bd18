package service_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/paytrack/authd/internal/service"
	"github.com/paytrack/authd/internal/store/drivers/sqlite"
	"github.com/paytrack/authd/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source for expiry tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)}
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestHasher() *cryptox.Hasher {
	return cryptox.NewHasher(rand.New(rand.NewPCG(42, 42)))
}

// newTestServices wires the full service graph over an in-memory store with
// a fake clock.
func newTestServices(t *testing.T) (*service.AuthService, *service.UserService, *service.TokenService, *fakeClock) {
	t.Helper()

	st := newTestStore(t)
	clock := newFakeClock()

	users := &service.UserService{Store: st, Hasher: newTestHasher()}
	tokens := &service.TokenService{Store: st, Now: clock.Now}
	auth := &service.AuthService{Users: users, Tokens: tokens}

	return auth, users, tokens, clock
}
