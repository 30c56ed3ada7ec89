package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()

	assert.Equal(t, 72*time.Hour, policy.Threshold)
	assert.Equal(t, 2*time.Hour, policy.WarnWindow)
	require.NoError(t, policy.Validate())
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr error
	}{
		{
			name:   "valid custom policy",
			policy: Policy{Threshold: 24 * time.Hour, WarnWindow: time.Hour},
		},
		{
			name:   "zero warn window disables approaching",
			policy: Policy{Threshold: 24 * time.Hour},
		},
		{
			name:    "zero threshold",
			policy:  Policy{},
			wantErr: ErrThresholdNotPositive,
		},
		{
			name:    "negative threshold",
			policy:  Policy{Threshold: -time.Hour},
			wantErr: ErrThresholdNotPositive,
		},
		{
			name:    "negative warn window",
			policy:  Policy{Threshold: 24 * time.Hour, WarnWindow: -time.Minute},
			wantErr: ErrWarnWindowInvalid,
		},
		{
			name:    "warn window wider than threshold",
			policy:  Policy{Threshold: time.Hour, WarnWindow: 2 * time.Hour},
			wantErr: ErrWarnWindowInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
		})
	}
}
