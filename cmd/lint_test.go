package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLintCmd_ReportOnlyByDefault(t *testing.T) {
	root, stub, _ := newTestRoot(t, newLintCmd())

	root.SetArgs([]string{"lint"})
	err := root.Execute()
	require.NoError(t, err)

	require.NotNil(t, stub.lint)
	assert.False(t, stub.lint.Apply)
}

func TestLintCmd_FixFlag(t *testing.T) {
	root, stub, _ := newTestRoot(t, newLintCmd())

	root.SetArgs([]string{"lint", "--fix"})
	err := root.Execute()
	require.NoError(t, err)

	require.NotNil(t, stub.lint)
	assert.True(t, stub.lint.Apply)
}
