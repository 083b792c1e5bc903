// Package testutil holds helpers shared by the farm test suites.
package testutil

import (
	"testing"
	"time"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// NewTestUUID derives a reproducible UUID from seed
func NewTestUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(testNamespace, []byte(seed))
}

// TestTenantID returns the default tenant used by tests
func TestTenantID() uuid.UUID {
	return NewTestUUID("test-tenant")
}

// TestUserID returns the default operator used by tests
func TestUserID() uuid.UUID {
	return NewTestUUID("test-user")
}

// NewRequestContext builds a caller identity whose tenant and user are derived
// from seed. Distinct seeds never share a tenant, so tests on a shared
// database stay isolated.
func NewRequestContext(seed string) shared.RequestContext {
	return shared.NewRequestContext(
		NewTestUUID(seed+"/tenant"),
		NewTestUUID(seed+"/user"),
		"operador",
	)
}

// Dec parses a decimal literal and panics on malformed input
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// RequireEventually polls condition until it holds or fails the test after timeout.
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...interface{}) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
