package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pushp314/releasenotes-backend/internal/config"
	"github.com/pushp314/releasenotes-backend/internal/syncer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	src   source
	opts  syncer.Options
	calls int
	err   error
}

func (r *recorder) run(_ context.Context, src source, opts syncer.Options) (*syncer.Result, error) {
	r.calls++
	r.src = src
	r.opts = opts
	if r.err != nil {
		return nil, r.err
	}
	return &syncer.Result{Releases: 2, Notes: 3}, nil
}

func execute(t *testing.T, cfg *config.Config, rec *recorder, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(cfg, rec.run)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	// cobra falls back to os.Args when args is nil
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFlagsDefaultToConfig(t *testing.T) {
	cfg := &config.Config{SyncURL: "https://notes.example.com/rna", SyncAPIToken: "secret"}
	rec := &recorder{}

	out, err := execute(t, cfg, rec)
	require.NoError(t, err)
	assert.Equal(t, source{url: cfg.SyncURL, token: "secret"}, rec.src)
	assert.False(t, rec.opts.Clean)
	assert.Nil(t, rec.opts.ModifiedAfter)
	assert.Contains(t, out, "Synced 2 releases and 3 notes")
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := &config.Config{SyncURL: "https://notes.example.com/rna"}
	rec := &recorder{}

	_, err := execute(t, cfg, rec, "--url", "https://other.example.com/rna", "--api-token", "t0k", "--clean")
	require.NoError(t, err)
	assert.Equal(t, "https://other.example.com/rna", rec.src.url)
	assert.Equal(t, "t0k", rec.src.token)
	assert.True(t, rec.opts.Clean)
}

func TestModifiedAfter(t *testing.T) {
	cfg := &config.Config{SyncURL: "https://notes.example.com/rna"}

	tests := []struct {
		value string
		want  time.Time
	}{
		{"2015-11-01", time.Date(2015, 11, 1, 0, 0, 0, 0, time.UTC)},
		{"2015-11-01T10:30:00", time.Date(2015, 11, 1, 10, 30, 0, 0, time.UTC)},
		{"2015-11-01T10:30:00+02:00", time.Date(2015, 11, 1, 8, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			rec := &recorder{}
			_, err := execute(t, cfg, rec, "--modified-after", tt.value)
			require.NoError(t, err)
			require.NotNil(t, rec.opts.ModifiedAfter)
			assert.True(t, tt.want.Equal(*rec.opts.ModifiedAfter))
		})
	}
}

func TestInvalidInvocations(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
		args []string
	}{
		{"no url", &config.Config{}, nil},
		{"bad modified-after", &config.Config{SyncURL: "https://x"}, []string{"--modified-after", "last week"}},
		{"clean with modified-after", &config.Config{SyncURL: "https://x"}, []string{"--clean", "--modified-after", "2015-11-01"}},
		{"positional args", &config.Config{SyncURL: "https://x"}, []string{"extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			_, err := execute(t, tt.cfg, rec, tt.args...)
			assert.Error(t, err)
			assert.Zero(t, rec.calls)
		})
	}
}

func TestSyncErrorIsReturned(t *testing.T) {
	rec := &recorder{err: errors.New(syncer.NotifySubject + ": boom")}
	_, err := execute(t, &config.Config{SyncURL: "https://x"}, rec)
	require.Error(t, err)
	assert.Equal(t, syncer.NotifySubject+": boom", err.Error())
}
