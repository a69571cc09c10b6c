package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/spf13/viper"

	"github.com/zjrosen/rawline"
	"github.com/zjrosen/rawline/internal/instr"
	"github.com/zjrosen/rawline/internal/log"
)

// lineEditor is the part of rawline.Editor the shell drives.
type lineEditor interface {
	ReadLineContext(ctx context.Context, prompt string, cfg rawline.Config) (string, error)
	AddHistory(line string) bool
}

// historySink persists accepted lines.
type historySink interface {
	Append(session, line string) error
}

// shell is the read-echo loop behind the root command.
type shell struct {
	editor   lineEditor
	store    historySink // nil when history is disabled
	out      io.Writer
	mode     *modeSwitch
	prompt   string
	encoding string
	session  string
}

// run reads lines until end of input. Ctrl-C abandons the current line only.
func (s *shell) run(ctx context.Context) error {
	log.Info(log.CatEdit, "Session started", "session", s.session, "mode", s.mode.Get())
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := s.editor.ReadLineContext(ctx, s.prompt, rawline.Config{
			Mode:     s.mode.Get(),
			Encoding: s.encoding,
		})
		switch {
		case errors.Is(err, rawline.ErrCancelled):
			continue
		case errors.Is(err, rawline.ErrEndOfFile), errors.Is(err, context.Canceled):
			log.Info(log.CatEdit, "Session ended", "session", s.session)
			return nil
		case err != nil:
			return err
		}

		if _, err := fmt.Fprintln(s.out, line); err != nil {
			return err
		}
		if !s.editor.AddHistory(line) || s.store == nil {
			continue
		}
		if err := s.store.Append(s.session, line); err != nil {
			log.ErrorErr(log.CatHistory, "Failed to save history", err, "session", s.session)
		}
	}
}

// modeSwitch holds the edit mode shared between the shell and the config
// watcher.
type modeSwitch struct {
	mu   sync.Mutex
	mode instr.EditMode
}

func newModeSwitch(m instr.EditMode) *modeSwitch {
	return &modeSwitch{mode: m}
}

func (s *modeSwitch) Get() instr.EditMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Set stores m and reports whether it differs from the previous mode.
func (s *modeSwitch) Set(m instr.EditMode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.mode != m
	s.mode = m
	return changed
}

// loadMode reads the mode key from the config file at path. A file without
// one selects emacs.
func loadMode(path string) (instr.EditMode, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return instr.EditEmacs, fmt.Errorf("reading config: %w", err)
	}
	return instr.ParseEditMode(v.GetString("mode"))
}

var promptStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#0550AE", Dark: "#54AEFF"}).
	Bold(true)

// stylePrompt colors the prompt unless NO_COLOR is set. It runs before raw
// mode so the background color query is answered outside the editor.
func stylePrompt(prompt string) string {
	if prompt == "" || termenv.EnvNoColor() {
		return prompt
	}
	return promptStyle.Render(prompt)
}

func newSessionID() string {
	return uuid.NewString()
}
