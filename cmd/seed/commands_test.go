package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	t.Run("Registers both subcommands", func(t *testing.T) {
		root := NewRootCommand()

		for _, name := range []string{"catalog", "user"} {
			cmd, _, err := root.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
		}
	})

	t.Run("User requires an id", func(t *testing.T) {
		root := NewRootCommand()
		root.SetOut(new(bytes.Buffer))
		root.SetArgs([]string{"user"})

		err := root.Execute()
		assert.Error(t, err)
	})

	t.Run("Catalog takes no arguments", func(t *testing.T) {
		root := NewRootCommand()
		root.SetOut(new(bytes.Buffer))
		root.SetArgs([]string{"catalog", "extra"})

		err := root.Execute()
		assert.Error(t, err)
	})
}
