package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/wizzomafizzo/beakersync/internal/constants"
	"github.com/wizzomafizzo/beakersync/internal/prompt"
	"github.com/wizzomafizzo/beakersync/internal/server"
	"github.com/wizzomafizzo/beakersync/internal/store"
)

func init() {
	color.NoColor = true
}

type lockedBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p) //nolint:wrapcheck // bytes.Buffer never fails
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// scriptedPrompter answers prompts from a fixed list, then reports EOF.
type scriptedPrompter struct {
	answers []string
}

func (s *scriptedPrompter) Prompt(string) (string, error) {
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

func (*scriptedPrompter) Close() error { return nil }

// newSettingsServer starts a settings endpoint backed by a fresh store.
func newSettingsServer(t *testing.T, token string) (*httptest.Server, *store.Store) {
	t.Helper()

	st, err := store.Open(context.Background(), t.TempDir()+"/server.db")
	require.NoError(t, err)

	ts := httptest.NewServer(server.New(st, server.Options{Logger: zerolog.Nop(), Token: token}))
	t.Cleanup(func() {
		ts.Close()
		_ = st.Close()
	})
	return ts, st
}

// newTestDeps writes a config pointing at url onto an in-memory filesystem.
func newTestDeps(t *testing.T, url, extraConfig string, answers ...string) dependencies {
	t.Helper()

	fs := afero.NewMemMapFs()
	cfg := fmt.Sprintf("server:\n  url: %s\nsync:\n  delay: 1ms\n%s", url, extraConfig)
	require.NoError(t, afero.WriteFile(fs, constants.ConfigFilename, []byte(cfg), 0o600))

	return dependencies{
		fs:        fs,
		logWriter: io.Discard,
		newPrompter: func() prompt.Prompter {
			return &scriptedPrompter{answers: answers}
		},
	}
}

func execute(t *testing.T, deps dependencies, args ...string) (string, error) {
	t.Helper()

	var out lockedBuffer
	cmd := newRootCommand(deps)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
