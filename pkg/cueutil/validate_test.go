// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Test: close({
	name:  string
	port?: int & >=0 & <=65535
	mode:  *"fast" | "slow"
})
`

func TestValidateMap(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()

		got, err := ValidateMap([]byte(testSchema), "#Test", map[string]any{"name": "x"})
		if err != nil {
			t.Fatalf("ValidateMap() error: %v", err)
		}
		if got["name"] != "x" || got["mode"] != "fast" {
			t.Errorf("ValidateMap() = %v", got)
		}
	})

	t.Run("rejects out of range", func(t *testing.T) {
		t.Parallel()

		_, err := ValidateMap([]byte(testSchema), "#Test",
			map[string]any{"name": "x", "port": int64(70000)}, WithFilename("c.toml"))
		if !errors.Is(err, ErrSchema) {
			t.Fatalf("ValidateMap() error = %v, want ErrSchema", err)
		}
		if !strings.Contains(err.Error(), "c.toml") || !strings.Contains(err.Error(), "port") {
			t.Errorf("error %q should name the file and field", err.Error())
		}
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		t.Parallel()

		_, err := ValidateMap([]byte(testSchema), "#Test", map[string]any{"name": "x", "bogus": true})
		if !errors.Is(err, ErrSchema) {
			t.Errorf("ValidateMap() error = %v, want ErrSchema", err)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		t.Parallel()

		if _, err := ValidateMap([]byte(testSchema), "#Test", nil); !errors.Is(err, ErrSchema) {
			t.Errorf("ValidateMap() error = %v, want ErrSchema", err)
		}
	})

	t.Run("unknown definition", func(t *testing.T) {
		t.Parallel()

		if _, err := ValidateMap([]byte(testSchema), "#Missing", nil); err == nil {
			t.Error("expected error for missing definition")
		}
	})
}
