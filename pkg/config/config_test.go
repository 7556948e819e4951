package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdmissionConfig_Capacities(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expected  map[string]int
		expectErr bool
	}{
		{
			name:     "two categories",
			raw:      "A:6,B:6",
			expected: map[string]int{"A": 6, "B": 6},
		},
		{
			name:     "whitespace tolerated",
			raw:      " A : 6 , B : 6 ",
			expected: map[string]int{"A": 6, "B": 6},
		},
		{
			name:     "single category",
			raw:      "open:12",
			expected: map[string]int{"open": 12},
		},
		{
			name:      "missing limit",
			raw:       "A",
			expectErr: true,
		},
		{
			name:      "non-numeric limit",
			raw:       "A:lots",
			expectErr: true,
		},
		{
			name:      "negative limit",
			raw:       "A:-1",
			expectErr: true,
		},
		{
			name:      "empty",
			raw:       "",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &AdmissionConfig{CategoryCapacities: tt.raw}
			got, err := cfg.Capacities()
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
