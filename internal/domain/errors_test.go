package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpErrorMessage(t *testing.T) {
	err := &OpError{
		Op:   "artifacts.fetch",
		Kind: KindNetwork,
		Path: "https://example.com/pkg.deb",
		Err:  errors.New("connection refused"),
	}

	assert.Contains(t, err.Error(), "artifacts.fetch")
	assert.Contains(t, err.Error(), "network")
	assert.Contains(t, err.Error(), "https://example.com/pkg.deb")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestKindOf(t *testing.T) {
	inner := &OpError{Op: "artifacts.library", Kind: KindMandatoryArtifact}
	wrapped := fmt.Errorf("task failed: %w", inner)

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindMandatoryArtifact, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestErrorsIsMatchesOnKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &OpError{Op: "a", Kind: KindNetwork})

	assert.True(t, errors.Is(err, &OpError{Kind: KindNetwork}))
	assert.False(t, errors.Is(err, &OpError{Kind: KindConfiguration}))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: 0},
		{name: "plain error", err: errors.New("boom"), want: ExitFailure},
		{name: "network", err: &OpError{Kind: KindNetwork}, want: ExitFailure},
		{
			name: "missing library",
			err:  fmt.Errorf("run failed: %w", &OpError{Kind: KindMandatoryArtifact}),
			want: ExitLibraryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
