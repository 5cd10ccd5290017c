package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"reconcile", "backfill", "sync-employees", "token"}, names)
}

func TestBackfill_RequiresFrom(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"backfill"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from")
}

func TestReconcile_RejectsBadRange(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"reconcile", "--from", "2024-05-03", "--to", "2024-05-01"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "to must not be before from")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"written": 1}))
	assert.JSONEq(t, `{"written":1}`, buf.String())
}
