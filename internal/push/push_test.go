// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package push

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/sling-transport/internal/repository"
	"github.com/hashicorp-forge/sling-transport/internal/repository/mock"
	"github.com/hashicorp-forge/sling-transport/internal/repository/slingtest"
	"github.com/hashicorp-forge/sling-transport/internal/trace"
	it "github.com/hashicorp-forge/sling-transport/internal/transport"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	return root
}

func TestPush(t *testing.T) {
	t.Parallel()

	local := writeTree(t, map[string]string{
		"index.html":         "index",
		"css/site.css":       "css",
		"css/vendor/a.css":   "vendor",
		"img/logo.png":       "png",
		".git/config":        "git",
		"notes.swp":          "swap",
		"docs/draft/todo.md": "todo",
	})

	s := slingtest.NewServer()
	defer s.Close()

	rec := trace.NewRecorder()
	client := repository.NewClient(repository.RepositoryInfo{
		URL:      s.URL,
		Username: s.Username(),
		Password: s.Password(),
	}, repository.WithTracer(rec))

	pusher, err := New(client, WithIgnores(".git/", "*.swp", "docs/"))
	require.NoError(t, err)

	report, err := pusher.Push(local, "/content/site/")
	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.Empty(t, report.Failed())
	assert.ElementsMatch(t, []string{".git", "notes.swp", "docs"}, report.Ignored)

	pushed := []string{}
	for _, i := range report.Items {
		pushed = append(pushed, i.FileInfo.NodePath())
	}
	assert.Equal(t, []string{
		"/content/site/css/site.css",
		"/content/site/css/vendor/a.css",
		"/content/site/img/logo.png",
		"/content/site/index.html",
	}, pushed)

	for path, content := range map[string]string{
		"/content/site/index.html":       "index",
		"/content/site/css/vendor/a.css": "vendor",
	} {
		n, ok := s.Node(path)
		require.True(t, ok, path)
		assert.Equal(t, []byte(content), n.Content)
	}

	_, ok := s.Node("/content/site/.git")
	assert.False(t, ok)
	assert.Len(t, rec.Records(), 4)
}

func TestPushReportsEveryFailure(t *testing.T) {
	t.Parallel()

	local := writeTree(t, map[string]string{
		"a.txt": "a",
		"b.txt": "b",
		"c.txt": "c",
	})

	repo := mock.New(
		mock.WithFailure("/content/a.txt", it.NewStatusError(500)),
		mock.WithFailure("/content/c.txt", it.NewTransportError(errors.New("connection refused"))),
	)

	pusher, err := New(repo)
	require.NoError(t, err)

	report, err := pusher.Push(local, "/content")
	require.NoError(t, err)
	require.Len(t, report.Items, 3)
	assert.True(t, report.Items[1].Succeeded())

	failed := report.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, "a.txt", failed[0].FileInfo.Name)
	assert.Equal(t, "c.txt", failed[1].FileInfo.Name)

	var merr *multierror.Error
	require.ErrorAs(t, report.Err(), &merr)
	require.Len(t, merr.Errors, 2)
	assert.Contains(t, merr.Errors[0].Error(), "/content/a.txt")
	assert.Contains(t, merr.Errors[1].Error(), "connection refused")
	assert.True(t, it.IsTransport(merr.Errors[1]))
}

func TestPushToRepositoryRoot(t *testing.T) {
	t.Parallel()

	local := writeTree(t, map[string]string{
		"top.txt":     "top",
		"sub/x.txt":   "x",
		"sub/y/z.txt": "z",
	})

	repo := mock.New()
	pusher, err := New(repo)
	require.NoError(t, err)

	report, err := pusher.Push(local, "/")
	require.NoError(t, err)

	locations := []string{}
	pushed := []string{}
	for _, i := range report.Items {
		locations = append(locations, i.FileInfo.RelativeLocation)
		pushed = append(pushed, i.FileInfo.NodePath())
	}
	assert.Equal(t, []string{"/sub", "/sub/y", "/"}, locations)
	assert.Equal(t, []string{"/sub/x.txt", "/sub/y/z.txt", "/top.txt"}, pushed)
	assert.Equal(t, []string{
		"     ADD /sub/x.txt",
		"     ADD /sub/y/z.txt",
		"     ADD /top.txt",
	}, repo.Executed())
}

func TestPushMissingRoot(t *testing.T) {
	t.Parallel()

	pusher, err := New(mock.New())
	require.NoError(t, err)

	_, err = pusher.Push(filepath.Join(t.TempDir(), "missing"), "/content")
	require.Error(t, err)
}

func TestIgnorePatterns(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		pattern   string
		path      string
		directory bool
		ignored   bool
	}{
		{"*.swp", "a.swp", false, true},
		{"*.swp", "x/y/a.swp", false, true},
		{"/*.swp", "x/a.swp", false, false},
		{"build/", "build", true, true},
		{"build/", "build", false, false},
		{"docs/**", "docs/a/b.md", false, true},
		{"docs/*.md", "other/docs/a.md", false, false},
	} {
		i, err := newIgnorePattern(test.pattern)
		require.NoError(t, err)
		assert.Equal(t, test.ignored, i.matches(test.path, test.directory), test.pattern+" "+test.path)
	}

	for _, bad := range []string{"", "/", "//", "["} {
		_, err := New(mock.New(), WithIgnores(bad))
		assert.Error(t, err, bad)
	}
}
