package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront-dev/shopfront/internal/cli/commands"
)

func TestRootCmd_Commands(t *testing.T) {
	root := NewRootCmd(&commands.Env{})

	for _, name := range []string{
		"version", "login", "register", "logout", "whoami", "open", "routes",
		"catalog", "product", "categories", "cart", "checkout", "orders",
		"reviews", "admin", "configure", "shell",
	} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	cmd, _, err := root.Find([]string{"products"})
	require.NoError(t, err)
	assert.Equal(t, "catalog", cmd.Name(), "catalog alias")
}

func TestRootCmd_Version(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd(&commands.Env{Out: &out})
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "shopfront version dev\n", out.String())
}
