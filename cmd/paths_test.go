package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/fleetops/queryfix/internal/model"
)

func TestPathsCmd_PassesScanArgs(t *testing.T) {
	root, stub, _ := newTestRoot(t, newPathsCmd())

	root.SetArgs([]string{"paths", "-d", "lib"})
	err := root.Execute()
	require.NoError(t, err)

	require.NotNil(t, stub.paths)
	assert.Equal(t, m.Path("lib"), stub.paths.Root)
	assert.False(t, stub.paths.Update)
}

func TestPathsCmd_UpdateFlag(t *testing.T) {
	root, stub, _ := newTestRoot(t, newPathsCmd())

	root.SetArgs([]string{"paths", "--update"})
	err := root.Execute()
	require.NoError(t, err)

	require.NotNil(t, stub.paths)
	assert.True(t, stub.paths.Update)
}
