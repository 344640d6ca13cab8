// Package ttesting contains assertion helpers shared by the tests of the
// other packages.
package ttesting

import (
	"testing"

	"github.com/pkg/errors"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualBool(t *testing.T, name string, got, want bool) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

func AssertEqualString(t *testing.T, name string, got, want string) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %q; want %q", got, want)
		}
	})
}

func AssertEqualInts(t *testing.T, name string, got, want []int) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if len(got) != len(want) {
			t.Fatalf("got %d elements %v; want %d elements %v", len(got), got, len(want), want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("element %d: got %d; want %d", i, got[i], want[i])
			}
		}
	})
}

func AssertInRangeInt(t *testing.T, name string, got, wantMin, wantMax int) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got < wantMin || got > wantMax {
			t.Errorf("got %d; want [%d,%d]", got, wantMin, wantMax)
		}
	})
}

// AssertCause checks that err is non-nil and that want is its cause, or one
// of the errors it wraps.
func AssertCause(t *testing.T, name string, err, want error) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if err == nil {
			t.Fatalf("got nil error; want %v", want)
		}
		if errors.Cause(err) != want && !errors.Is(err, want) {
			t.Errorf("got error %v; want cause %v", err, want)
		}
	})
}
