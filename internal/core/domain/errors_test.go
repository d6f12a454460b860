package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNoTestCases", ErrNoTestCases},
		{"ErrShardUnknown", ErrShardUnknown},
		{"ErrMalformedReview", ErrMalformedReview},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Uniqueness tests that all errors are distinct
func TestErrors_Uniqueness(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrNoTestCases,
		ErrShardUnknown,
		ErrMalformedReview,
		ErrLLMUnavailable,
		ErrEmbeddingUnavailable,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j {
				assert.False(t, errors.Is(err1, err2),
					"Error %v should not match error %v", err1, err2)
			}
		}
	}
}

// TestErrors_WithWrapping tests error wrapping behavior
func TestErrors_WithWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load shard Billing: %w", ErrShardUnknown)

	assert.True(t, errors.Is(wrapped, ErrShardUnknown))
	assert.Contains(t, wrapped.Error(), "unknown corpus shard")
}

// TestErrNoTestCases tests the empty-corpus sentinel
func TestErrNoTestCases(t *testing.T) {
	assert.Equal(t, "no test cases loaded", ErrNoTestCases.Error())
	assert.True(t, errors.Is(ErrNoTestCases, ErrNoTestCases))
	assert.False(t, errors.Is(ErrNoTestCases, ErrNotFound))
}

// TestErrors_ServiceErrors tests service-related errors
func TestErrors_ServiceErrors(t *testing.T) {
	serviceErrors := []error{
		ErrLLMUnavailable,
		ErrEmbeddingUnavailable,
	}

	for _, err := range serviceErrors {
		assert.Contains(t, err.Error(), "unavailable",
			"Service error %v should mention unavailable", err)
	}
}
