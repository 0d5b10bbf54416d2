package identity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lesson-service/internal/identity"
)

func TestProvider_SetNotifiesListeners(t *testing.T) {
	p := identity.NewProvider()
	require.Equal(t, "", p.Current())

	var seen []string
	p.OnChange(func(userID string) { seen = append(seen, userID) })

	p.Set("u1")
	require.Equal(t, "u1", p.Current())
	require.Equal(t, []string{"u1"}, seen)

	// logout then different login
	p.Set("")
	p.Set("u2")
	require.Equal(t, []string{"u1", "", "u2"}, seen)
}

func TestProvider_SetSameValueIsNoop(t *testing.T) {
	p := identity.NewProvider()
	p.Set("u1")

	calls := 0
	p.OnChange(func(string) { calls++ })

	p.Set("u1")
	require.Zero(t, calls)
}

func TestStatic(t *testing.T) {
	s := identity.Static("u1")
	require.Equal(t, "u1", s.Current())
	s.OnChange(func(string) { t.Fatal("static identity never changes") })
}
