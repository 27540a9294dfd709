package media

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/piplayer/pkg/errors"
)

func newFixture(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, f, []byte("video"), 0644))
	}
	return fs
}

func TestResolve(t *testing.T) {
	fs := newFixture(t,
		"/media/a.mp4",
		"/media/b.mp4",
		"/media/notes.txt",
		"/media/extra/c.mp4",
	)
	r := NewResolver(fs)

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "literal_path",
			patterns: []string{"/media/a.mp4"},
			want:     []string{"/media/a.mp4"},
		},
		{
			name:     "glob_sorted_within_pattern",
			patterns: []string{"/media/*.mp4"},
			want:     []string{"/media/a.mp4", "/media/b.mp4"},
		},
		{
			name:     "pattern_order_is_kept",
			patterns: []string{"/media/extra/*.mp4", "/media/b.mp4", "/media/a.mp4"},
			want:     []string{"/media/extra/c.mp4", "/media/b.mp4", "/media/a.mp4"},
		},
		{
			name:     "overlapping_patterns_keep_duplicates",
			patterns: []string{"/media/a.mp4", "/media/*.mp4"},
			want:     []string{"/media/a.mp4", "/media/a.mp4", "/media/b.mp4"},
		},
		{
			name:     "no_match_contributes_nothing",
			patterns: []string{"/media/*.nomatch", "/media/b.mp4"},
			want:     []string{"/media/b.mp4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveNoMatchesIsEmpty(t *testing.T) {
	r := NewResolver(newFixture(t, "/media/a.mp4"))

	got, err := r.Resolve([]string{"*.nomatch"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = r.Resolve(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolveOneMatchesList(t *testing.T) {
	r := NewResolver(newFixture(t, "a.mp4", "b.mp4"))

	single, err := r.ResolveOne("a.mp4")
	require.NoError(t, err)
	list, err := r.Resolve([]string{"a.mp4"})
	require.NoError(t, err)

	assert.Equal(t, list, single)
	assert.Equal(t, []string{"a.mp4"}, single)
}

func TestResolveBadPattern(t *testing.T) {
	r := NewResolver(newFixture(t, "/media/a.mp4"))

	_, err := r.Resolve([]string{"/media/[a.mp4"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}
