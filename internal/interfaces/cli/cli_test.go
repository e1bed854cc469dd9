package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riad/internal/interfaces/cli"
)

func TestVersionCmd(t *testing.T) {
	root := cli.NewRoot()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "riad dev (commit=unknown)\n", out.String())
}

func TestRootCommands(t *testing.T) {
	root := cli.NewRoot()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.ElementsMatch(t, []string{"serve", "pre-arrival", "version"}, names)
}

func TestPreArrivalCmd_bad_config(t *testing.T) {
	t.Setenv("PRE_ARRIVAL_RUN_AT", "25:99")

	root := cli.NewRoot()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"pre-arrival"})

	require.Error(t, root.Execute())
}

func TestPreArrivalCmd_negative_days(t *testing.T) {
	root := cli.NewRoot()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"pre-arrival", "--days", "-1"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--days must not be negative")
}
