package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantMode string
		wantRest []string
	}{
		{
			name:     "mode flag",
			args:     []string{"--mode=navigation-service", "--max-concurrent=50"},
			wantMode: ModeNavigation,
			wantRest: []string{"--max-concurrent=50"},
		},
		{
			name:     "subcommand shorthand",
			args:     []string{"graph-import", "--map=data/bishkek.json"},
			wantMode: ModeGraphImport,
			wantRest: []string{"--map=data/bishkek.json"},
		},
		{
			name:     "navigation alias",
			args:     []string{"nav"},
			wantMode: ModeNavigation,
		},
		{
			name:     "import alias via flag",
			args:     []string{"--mode=gi"},
			wantMode: ModeGraphImport,
		},
		{
			name:     "flag wins over later subcommand-looking args",
			args:     []string{"--mode=navigation", "extra"},
			wantMode: ModeNavigation,
			wantRest: []string{"extra"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, rest, err := ParseMode(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, mode)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestParseModeMissing(t *testing.T) {
	_, rest, err := ParseMode([]string{"--verbose"})
	require.Error(t, err)
	assert.Equal(t, []string{"--verbose"}, rest)
}
