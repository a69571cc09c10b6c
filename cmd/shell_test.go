package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rawline"
	"github.com/zjrosen/rawline/internal/instr"
)

type readResult struct {
	line string
	err  error
}

// fakeEditor replays canned results and records each call's config.
type fakeEditor struct {
	results []readResult
	configs []rawline.Config
	added   []string
	before  func(call int)
}

func (f *fakeEditor) ReadLineContext(_ context.Context, _ string, cfg rawline.Config) (string, error) {
	if f.before != nil {
		f.before(len(f.configs))
	}
	f.configs = append(f.configs, cfg)
	if len(f.results) == 0 {
		return "", rawline.ErrEndOfFile
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.line, r.err
}

func (f *fakeEditor) AddHistory(line string) bool {
	if line == "" || (len(f.added) > 0 && f.added[len(f.added)-1] == line) {
		return false
	}
	f.added = append(f.added, line)
	return true
}

type fakeSink struct {
	lines []string
	err   error
}

func (s *fakeSink) Append(session, line string) error {
	s.lines = append(s.lines, session+":"+line)
	return s.err
}

func newTestShell(ed lineEditor, sink historySink, out *bytes.Buffer) *shell {
	sh := &shell{
		editor:   ed,
		out:      out,
		mode:     newModeSwitch(instr.EditEmacs),
		prompt:   "> ",
		encoding: "utf-8",
		session:  "s1",
	}
	if sink != nil {
		sh.store = sink
	}
	return sh
}

func TestShell_EchoesAndSavesLines(t *testing.T) {
	ed := &fakeEditor{results: []readResult{
		{line: "ls"},
		{err: rawline.ErrCancelled},
		{line: "ls"},
		{line: "pwd"},
		{line: ""},
		{err: rawline.ErrEndOfFile},
	}}
	sink := &fakeSink{}
	var out bytes.Buffer

	require.NoError(t, newTestShell(ed, sink, &out).run(context.Background()))

	assert.Equal(t, "ls\nls\npwd\n\n", out.String())
	assert.Equal(t, []string{"ls", "pwd"}, ed.added)
	assert.Equal(t, []string{"s1:ls", "s1:pwd"}, sink.lines, "only lines the history accepted are stored")
}

func TestShell_WithoutStore(t *testing.T) {
	ed := &fakeEditor{results: []readResult{{line: "echo"}}}
	var out bytes.Buffer

	require.NoError(t, newTestShell(ed, nil, &out).run(context.Background()))
	assert.Equal(t, "echo\n", out.String())
}

func TestShell_StoreErrorsAreNotFatal(t *testing.T) {
	ed := &fakeEditor{results: []readResult{{line: "a"}, {line: "b"}}}
	sink := &fakeSink{err: errors.New("disk full")}
	var out bytes.Buffer

	require.NoError(t, newTestShell(ed, sink, &out).run(context.Background()))
	assert.Equal(t, "a\nb\n", out.String())
}

func TestShell_ReturnsReadErrors(t *testing.T) {
	ed := &fakeEditor{results: []readResult{{err: rawline.ErrUnsupportedTerminal}}}
	var out bytes.Buffer

	err := newTestShell(ed, nil, &out).run(context.Background())
	require.ErrorIs(t, err, rawline.ErrUnsupportedTerminal)
}

func TestShell_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ed := &fakeEditor{results: []readResult{{line: "never"}}}
	var out bytes.Buffer

	require.NoError(t, newTestShell(ed, nil, &out).run(ctx))
	assert.Empty(t, ed.configs)
}

func TestShell_ReadsCurrentMode(t *testing.T) {
	var out bytes.Buffer
	ed := &fakeEditor{results: []readResult{{line: "a"}, {line: "b"}}}
	sh := newTestShell(ed, nil, &out)
	// Switch while the first line is being read.
	ed.before = func(call int) {
		if call == 0 {
			sh.mode.Set(instr.EditVi)
		}
	}

	require.NoError(t, sh.run(context.Background()))
	require.Len(t, ed.configs, 3)
	assert.Equal(t, rawline.Emacs, ed.configs[0].Mode)
	assert.Equal(t, rawline.Vi, ed.configs[1].Mode)
	assert.Equal(t, "utf-8", ed.configs[1].Encoding)
}

func TestModeSwitch(t *testing.T) {
	s := newModeSwitch(instr.EditEmacs)
	assert.False(t, s.Set(instr.EditEmacs))
	assert.True(t, s.Set(instr.EditVi))
	assert.Equal(t, instr.EditVi, s.Get())
}

func TestLoadMode(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    instr.EditMode
		wantErr bool
	}{
		{"vi", "mode: vi\n", instr.EditVi, false},
		{"emacs", "mode: emacs\nprompt: \"$ \"\n", instr.EditEmacs, false},
		{"missing key", "prompt: \"$ \"\n", instr.EditEmacs, false},
		{"unknown mode", "mode: nano\n", instr.EditEmacs, true},
		{"invalid yaml", "mode: [vi\n", instr.EditEmacs, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			got, err := loadMode(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadMode_MissingFile(t *testing.T) {
	_, err := loadMode(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestWatchMode_FollowsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: emacs\n"), 0o600))

	mode := newModeSwitch(instr.EditEmacs)
	stop := watchMode(path, mode)
	defer stop()

	require.NoError(t, setMode(&bytes.Buffer{}, path, "vi"))

	require.Eventually(t, func() bool {
		return mode.Get() == instr.EditVi
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatchMode_UnwatchableDirectory(t *testing.T) {
	mode := newModeSwitch(instr.EditVi)
	stop := watchMode(filepath.Join(t.TempDir(), "missing", "config.yaml"), mode)
	stop()
	assert.Equal(t, instr.EditVi, mode.Get())
}

func TestStylePrompt(t *testing.T) {
	t.Run("no color", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.Equal(t, "> ", stylePrompt("> "))
	})
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", stylePrompt(""))
	})
}

func TestNewSessionID(t *testing.T) {
	a, b := newSessionID(), newSessionID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
