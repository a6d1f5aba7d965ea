package network

import (
	"errors"
	"testing"
)

func TestNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"duplicate",
			duplicateError("junction", "J1"),
			`add junction "J1": duplicate name`,
		},
		{
			"reference",
			referenceError("pipe", "P1", "node", "J9"),
			`add pipe "P1" (node "J9"): missing reference`,
		},
		{
			"context",
			NewError("type").Entity("curve", "C1").Context("already HEAD").Cause(ErrCurveTypeConflict).Err(),
			`type curve "C1": already HEAD: curve type conflict`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNetworkErrorUnwrap(t *testing.T) {
	err := notFoundError("pattern", "day")

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatal("expected *NetworkError")
	}
	if ne.Entity != "pattern" || ne.Name != "day" {
		t.Errorf("NetworkError = %+v", ne)
	}
	if !IsNotFound(err) || IsDuplicate(err) || IsMissingReference(err) {
		t.Error("predicates disagree with cause")
	}
	if ne.Is(nil) {
		t.Error("Is(nil) should be false")
	}
}
