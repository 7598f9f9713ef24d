package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		region string
		want   string
	}{
		{name: "already e164", raw: "+14155552671", region: "CN", want: "+14155552671"},
		{name: "national us with punctuation", raw: "(415) 555-2671", region: "US", want: "+14155552671"},
		{name: "chinese mobile", raw: "138 0013 8000", region: "CN", want: "+8613800138000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw, tt.region)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	_, err := Normalize("", "US")
	assert.ErrorIs(t, err, ErrInvalidNumber)

	_, err = Normalize("call me", "US")
	assert.ErrorIs(t, err, ErrInvalidNumber)
}
