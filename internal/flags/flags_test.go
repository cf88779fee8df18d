package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{name: "default on", registry: New(nil), flag: FlagQRPreview, expected: true},
		{name: "default off", registry: New(nil), flag: FlagReceiptMarkdown, expected: false},
		{name: "configured overrides default", registry: New(map[string]bool{FlagQRPreview: false}), flag: FlagQRPreview, expected: false},
		{name: "configured enables", registry: New(map[string]bool{FlagReceiptMarkdown: true}), flag: FlagReceiptMarkdown, expected: true},
		{name: "unknown flag", registry: New(nil), flag: "dark-launch", expected: false},
		{name: "nil registry", registry: nil, flag: FlagQRPreview, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_AllIsACopy(t *testing.T) {
	r := New(map[string]bool{"beta": true})

	all := r.All()
	all[FlagQRPreview] = false

	require.True(t, r.Enabled(FlagQRPreview))
	require.Equal(t, []string{"beta", FlagQRPreview, FlagReceiptMarkdown}, r.Names())
}

func TestRegistry_NilAll(t *testing.T) {
	var r *Registry
	require.Empty(t, r.All())
	require.Empty(t, r.Names())
}
