package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/agenda/internal/constants"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

func TestCatalog(t *testing.T) {
	caps := Catalog()
	require.Len(t, caps, len(constants.AllTools()))
	for i, c := range caps {
		assert.Equal(t, constants.AllTools()[i], c.Name)
		assert.NotEmpty(t, c.Description)
	}
}

func TestContext(t *testing.T) {
	tests := []struct {
		name      string
		enabled   []string
		wantNames []string
		wantErr   error
	}{
		{name: "empty", enabled: nil, wantNames: []string{}},
		{name: "normalized and deduplicated", enabled: []string{" Create_File", "create_file", "", "calculate"}, wantNames: []string{"create_file", "calculate"}},
		{name: "unknown tool", enabled: []string{"create_file", "shell"}, wantErr: agendaerrors.ErrConfigInvalidTools},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Context(tc.enabled)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantNames, got.Names())
		})
	}
}
