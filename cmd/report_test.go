package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/fleetops/queryfix/internal/model"
)

func TestReportCmd_DefaultScanArgs(t *testing.T) {
	root, stub, _ := newTestRoot(t, newReportCmd())

	root.SetArgs([]string{"report"})
	err := root.Execute()
	require.NoError(t, err)

	require.NotNil(t, stub.report)
	assert.Equal(t, m.Path("."), stub.report.Root)
	assert.Equal(t, "*.yml", stub.report.Glob)
}

func TestReportCmd_DirAndGlobFlags(t *testing.T) {
	root, stub, _ := newTestRoot(t, newReportCmd())

	root.SetArgs([]string{"report", "--dir", "lib", "--glob", "*.yaml"})
	err := root.Execute()
	require.NoError(t, err)

	require.NotNil(t, stub.report)
	assert.Equal(t, m.Path("lib"), stub.report.Root)
	assert.Equal(t, "*.yaml", stub.report.Glob)
}

func TestReportCmd_RejectsPositionalArgs(t *testing.T) {
	root, _, _ := newTestRoot(t, newReportCmd())

	root.SetArgs([]string{"report", "extra"})
	err := root.Execute()
	require.Error(t, err)
}
