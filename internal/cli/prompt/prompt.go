package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// ErrNonInteractive is returned when input is needed but stdin is not a terminal
var ErrNonInteractive = errors.New("input required in non-interactive mode")

// Prompter asks the user for input
type Prompter interface {
	Select(label string, items []string) (string, error)
	Input(label, defaultValue string) (string, error)
	Password(label string) (string, error)
	Confirm(label string) (bool, error)
}

// Terminal prompts on the controlling terminal
type Terminal struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// NewTerminal prompts on os.Stdin and os.Stderr
func NewTerminal() *Terminal {
	return &Terminal{Stdin: os.Stdin, Stdout: os.Stderr}
}

// Interactive reports whether stdin is a terminal (not piped)
func (t *Terminal) Interactive() bool {
	f, ok := t.Stdin.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Select shows an interactive list and returns the chosen item
func (t *Terminal) Select(label string, items []string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("nothing to choose from for %q", label)
	}
	if !t.Interactive() {
		return "", fmt.Errorf("%w: %s", ErrNonInteractive, strings.ToLower(label))
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ . | cyan }}",
		Inactive: "  {{ . }}",
		Selected: "{{ . | green }}",
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		Templates: templates,
		Size:      10,
		Stdin:     t.Stdin,
		Stdout:    t.Stdout,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}

	return items[index], nil
}

// Input reads one line of text
func (t *Terminal) Input(label, defaultValue string) (string, error) {
	if !t.Interactive() {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNonInteractive, strings.ToLower(label))
	}

	prompt := promptui.Prompt{
		Label:   label,
		Default: defaultValue,
		Stdin:   t.Stdin,
		Stdout:  t.Stdout,
	}

	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}
	return strings.TrimSpace(value), nil
}

// Password reads a line without echo
func (t *Terminal) Password(label string) (string, error) {
	f, ok := t.Stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", fmt.Errorf("%w: password (use --password or SHOPFRONT_PASSWORD)", ErrNonInteractive)
	}

	fmt.Fprintf(t.Stdout, "%s: ", label)
	bytePassword, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(t.Stdout) // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(bytePassword), nil
}

// Confirm asks a yes/no question
func (t *Terminal) Confirm(label string) (bool, error) {
	if !t.Interactive() {
		return false, fmt.Errorf("%w: confirmation (use --yes)", ErrNonInteractive)
	}

	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     t.Stdin,
		Stdout:    t.Stdout,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

// Scripted answers prompts from fixed responses, for non-interactive use
type Scripted struct {
	Answers   map[string]string
	Confirmed bool
	Asked     []string
}

func (s *Scripted) answer(label string) (string, error) {
	s.Asked = append(s.Asked, label)
	value, ok := s.Answers[label]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNonInteractive, strings.ToLower(label))
	}
	return value, nil
}

func (s *Scripted) Select(label string, items []string) (string, error) {
	value, err := s.answer(label)
	if err != nil {
		return "", err
	}
	for _, item := range items {
		if item == value {
			return value, nil
		}
	}
	return "", fmt.Errorf("%q is not one of: %s", value, strings.Join(items, ", "))
}

func (s *Scripted) Input(label, defaultValue string) (string, error) {
	value, err := s.answer(label)
	if err != nil && defaultValue != "" {
		return defaultValue, nil
	}
	return value, err
}

func (s *Scripted) Password(label string) (string, error) {
	return s.answer(label)
}

func (s *Scripted) Confirm(label string) (bool, error) {
	s.Asked = append(s.Asked, label)
	return s.Confirmed, nil
}
