package commands

import (
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront-dev/shopfront/internal/cli/router"
)

// scriptedReader replays lines and then reports end of input
type scriptedReader struct {
	lines   []string
	prompts []string
	history []string
	closed  bool
}

func (r *scriptedReader) Prompt(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) AppendHistory(line string) {
	r.history = append(r.history, line)
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

func runScript(t *testing.T, te *testEnv, lines ...string) *scriptedReader {
	t.Helper()

	reader := &scriptedReader{lines: lines}
	te.NewLineReader = func() (LineReader, error) { return reader, nil }

	newRoot := func() *cobra.Command {
		root := &cobra.Command{Use: "shopfront", SilenceUsage: true, SilenceErrors: true}
		root.AddCommand(NewCategoriesCmd(te.Env))
		root.AddCommand(NewLogoutCmd(te.Env))
		root.AddCommand(NewShellCmd(te.Env, nil))
		return root
	}

	require.NoError(t, runShell(context.Background(), te.Env, newRoot))
	assert.True(t, reader.closed)
	return reader
}

func TestShell_NavigatesAndGoesBack(t *testing.T) {
	te := newTestEnv(t)
	te.api.AddProduct("red hat", "15.00", 0)

	reader := runScript(t, te, "/catalog", "", "back", "back")

	assert.Equal(t, []string{
		"shopfront /> ",
		"shopfront /catalog> ",
		"shopfront /catalog> ",
		"shopfront /> ",
		"shopfront /> ",
	}, reader.prompts)
	assert.Equal(t, []string{"/catalog", "back", "back"}, reader.history, "blank lines are not recorded")
	assert.Contains(t, te.out.String(), "red hat")
	assert.Contains(t, te.out.String(), "Nothing to go back to.")
}

func TestShell_GuardedPathShowsLogin(t *testing.T) {
	te := newTestEnv(t)

	reader := runScript(t, te, "/checkout")

	assert.Contains(t, te.out.String(), "Sign in required for /checkout")
	assert.Equal(t, "shopfront /login?redirect=%2Fcheckout> ", reader.prompts[1])

	a, _ := te.App()
	assert.Equal(t, router.LoginRoute, a.Navigator.Current().Name)
	assert.Equal(t, "/checkout", a.Navigator.PendingRedirect())
}

func TestShell_RunsCommands(t *testing.T) {
	te := newTestEnv(t)
	te.signIn(t, false)
	te.api.AddCategory("Hats", "hats")

	runScript(t, te, "categories", "logout", "shell", "nonsense")

	output := te.out.String()
	assert.Contains(t, output, "Hats")
	assert.Contains(t, output, "✓ Logged out")
	assert.Contains(t, output, "Error: already in the shell")
	assert.Contains(t, output, `Error: unknown command "nonsense"`)

	a, _ := te.App()
	assert.False(t, a.Session.Authenticated(), "the shell shares one session with its commands")
}

func TestShell_Exit(t *testing.T) {
	te := newTestEnv(t)

	reader := runScript(t, te, "exit", "/catalog")

	assert.Len(t, reader.prompts, 1)
	assert.Equal(t, []string{"/catalog"}, reader.lines, "lines after exit are not read")
}
