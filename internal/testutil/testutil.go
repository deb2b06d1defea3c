// SPDX-License-Identifier: MPL-2.0

package testutil

import "testing"

// Stopper is implemented by servers with a Stop method.
type Stopper interface {
	Stop() error
}

// MustStop stops s and fails the test if shutdown reports an error.
func MustStop(t testing.TB, s Stopper) {
	t.Helper()
	if err := s.Stop(); err != nil {
		t.Errorf("stop returned error: %v", err)
	}
}
