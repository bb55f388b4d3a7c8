package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"run", "block", "migrate", "tail", "version"}, names)
}

func TestVersion(t *testing.T) {
	SetVersion("v1.2.3", "abc123")

	var buf bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "v1.2.3 (abc123)\n", buf.String())
}

func TestBlockRejectsBadNumber(t *testing.T) {
	var buf bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"block", "latest"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block number")
}
