package commands

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shopfront-dev/shopfront/internal/apitest"
	"github.com/shopfront-dev/shopfront/internal/cli/app"
	"github.com/shopfront-dev/shopfront/internal/cli/prompt"
	"github.com/shopfront-dev/shopfront/internal/cli/session"
	"github.com/shopfront-dev/shopfront/internal/config"
	"github.com/shopfront-dev/shopfront/internal/models"
)

// testEnv is an Env wired to a fake API and an in-memory session
type testEnv struct {
	*Env

	api       *apitest.Server
	out       *bytes.Buffer
	persister *session.MemoryPersister
	prompter  *prompt.Scripted
	vars      map[string]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	te := &testEnv{
		api:       apitest.New(t),
		out:       &bytes.Buffer{},
		persister: session.NewMemoryPersister(session.Session{}),
		prompter:  &prompt.Scripted{Answers: map[string]string{}},
		vars:      map[string]string{},
	}

	cfg := &config.Config{
		API:     config.APIConfig{BaseURL: te.api.APIURL(), Timeout: 5 * time.Second},
		Session: config.SessionConfig{Backend: config.BackendMemory},
	}

	te.Env = &Env{
		Out:      te.out,
		Prompter: te.prompter,
		Getenv:   func(key string) string { return te.vars[key] },
		Build: func(out io.Writer) (*app.App, error) {
			return app.New(cfg,
				app.WithPersister(te.persister),
				app.WithOutput(out),
				app.WithLogger(zerolog.Nop()),
			)
		},
	}
	t.Cleanup(func() { te.Close() })

	return te
}

// signIn creates an account and stores its session before the App is built
func (te *testEnv) signIn(t *testing.T, admin bool) models.User {
	t.Helper()

	user := te.api.AddUser("shopper@example.com", "secret", admin)
	token := te.api.IssueToken(user.ID)
	if err := te.persister.Save(session.Session{Token: token, User: &user}); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	te.persister.Saves = 0
	return user
}

func execute(cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}
