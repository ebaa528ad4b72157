package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/fleetops/queryfix/internal/model"
)

func TestFixAllCmd_UsesDefaultRuleTable(t *testing.T) {
	root, stub, _ := newTestRoot(t, newFixAllCmd())

	root.SetArgs([]string{"fix-all"})
	err := root.Execute()
	require.NoError(t, err)

	require.NotNil(t, stub.fixAll)
	assert.Equal(t, m.DefaultRewriteRules, stub.fixAll.Rules)
	assert.False(t, stub.fixAll.DryRun)
}

func TestFixAllCmd_DryRunFlag(t *testing.T) {
	root, stub, _ := newTestRoot(t, newFixAllCmd())

	root.SetArgs([]string{"fix-all", "-n"})
	err := root.Execute()
	require.NoError(t, err)

	require.NotNil(t, stub.fixAll)
	assert.True(t, stub.fixAll.DryRun)
}
