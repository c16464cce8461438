package application

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDataDir(t *testing.T) {
	tests := []struct {
		name    string
		base    func() (string, error)
		want    string
		wantErr bool
	}{
		{
			name: "user config dir",
			base: func() (string, error) { return filepath.FromSlash("/home/op/.config"), nil },
			want: filepath.FromSlash("/home/op/.config/wavelink"),
		},
		{
			name:    "no config dir",
			base:    func() (string, error) { return "", errors.New("$HOME is not defined") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveDataDir(tt.base)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
