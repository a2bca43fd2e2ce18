package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/shopfront-dev/shopfront/internal/config"
)

const historyFileName = "shell_history"

// LineReader reads shell input lines
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// linerReader is a LineReader with history kept in the config directory
type linerReader struct {
	*liner.State
	historyFile string
}

func newLinerReader() (LineReader, error) {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &linerReader{State: line}

	if dir, err := config.Dir(); err == nil {
		r.historyFile = filepath.Join(dir, historyFileName)
		if f, err := os.Open(r.historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	return r, nil
}

// Close saves history and restores the terminal
func (r *linerReader) Close() error {
	if r.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(r.historyFile), 0700); err == nil {
			if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
				r.WriteHistory(f)
				f.Close()
			}
		}
	}
	return r.State.Close()
}

// NewShellCmd creates the shell command. newRoot builds a fresh command tree
// for each line; every tree shares env, so the session and navigation
// history carry over between lines.
func NewShellCmd(env *Env, newRoot func() *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Browse the store interactively",
		Long: `Browse the store interactively.

Type a path to open a page (/catalog, /cart, ...), "back" to return to the
previous page, or any shopfront command without the "shopfront" prefix.
Type "exit" or press Ctrl+D to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), env, newRoot)
		},
	}
}

func runShell(ctx context.Context, env *Env, newRoot func() *cobra.Command) error {
	a, err := env.App()
	if err != nil {
		return err
	}

	reader, err := env.NewLineReader()
	if err != nil {
		return fmt.Errorf("failed to start shell: %w", err)
	}
	defer reader.Close()

	if err := a.Render(ctx); err != nil {
		env.printf("Error: %v\n", err)
	}

	for {
		line, err := reader.Prompt(fmt.Sprintf("shopfront %s> ", a.Navigator.Current().FullPath()))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				env.println()
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		reader.AppendHistory(line)

		switch {
		case line == "exit" || line == "quit":
			return nil
		case line == "back":
			if _, ok := a.Navigator.Back(); !ok {
				env.println("Nothing to go back to.")
				continue
			}
			err = a.Render(ctx)
		case strings.HasPrefix(line, "/"):
			_, err = a.Open(ctx, line)
		default:
			err = runShellCommand(ctx, env, newRoot, strings.Fields(line))
		}

		if err != nil {
			env.printf("Error: %v\n", err)
		}
	}
}

func runShellCommand(ctx context.Context, env *Env, newRoot func() *cobra.Command, args []string) error {
	if args[0] == "shell" {
		return fmt.Errorf("already in the shell")
	}

	root := newRoot()
	root.SetArgs(args)
	root.SetOut(env.Out)
	root.SetErr(env.Out)
	return root.ExecuteContext(ctx)
}
