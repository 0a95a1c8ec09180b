// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/sling-transport/internal/repository/slingtest"
	it "github.com/hashicorp-forge/sling-transport/internal/transport"
)

func run(t *testing.T, s *slingtest.Server, args ...string) (string, string, error) {
	t.Helper()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := newRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"--url", s.URL, "--log-level", "error"}, args...))

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestAddGetDelete(t *testing.T) {
	t.Parallel()

	s := slingtest.NewServer()
	defer s.Close()

	local := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(local, []byte("hello"), 0o644))

	stdout, _, err := run(t, s, "add", local, "/content/docs")
	require.NoError(t, err)
	assert.Equal(t, "/content/docs/hello.txt\n", stdout)

	stdout, _, err = run(t, s, "get", "/content/docs/hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", stdout)

	out := filepath.Join(t.TempDir(), "out.txt")
	_, stderr, err := run(t, s, "get", "/content/docs/hello.txt", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "wrote 5 B to "+out)
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), content)

	_, _, err = run(t, s, "delete", "/content/docs/hello.txt")
	require.NoError(t, err)

	_, _, err = run(t, s, "get", "/content/docs/hello.txt")
	require.Error(t, err)
	code, ok := it.StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, err.Error(), " GETNODE /content/docs/hello.txt")
}

func TestUpdateAndContent(t *testing.T) {
	t.Parallel()

	s := slingtest.NewServer()
	defer s.Close()

	_, _, err := run(t, s, "update", "/content/site", "title=Home", "jcr:description=Landing page")
	require.NoError(t, err)

	stdout, _, err := run(t, s, "content", "/content/site")
	require.NoError(t, err)
	props := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &props))
	assert.Equal(t, "Home", props["title"])
	assert.Equal(t, "Landing page", props["jcr:description"])

	stdout, _, err = run(t, s, "ls", "/content", "--type", "xml")
	require.NoError(t, err)
	props = map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &props))
	assert.Contains(t, props, "site")

	_, _, err = run(t, s, "update", "/content/site", "novalue")
	require.Error(t, err)

	_, _, err = run(t, s, "ls", "/content", "--type", "yaml")
	require.Error(t, err)
}

func TestPush(t *testing.T) {
	t.Parallel()

	s := slingtest.NewServer()
	defer s.Close()

	local := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(local, "css"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(local, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(local, "index.html"), []byte("index"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(local, "css", "site.css"), []byte("css"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(local, ".git", "HEAD"), []byte("ref"), 0o644))

	stdout, stderr, err := run(t, s, "--trace", "--trace-summary", "push", local, "/content/site")
	require.NoError(t, err)
	assert.Contains(t, stdout, "/content/site/index.html")
	assert.Contains(t, stdout, "/content/site/css/site.css")
	assert.Contains(t, stdout, "2 pushed, 0 failed, 1 ignored")
	assert.Contains(t, stderr, "     ADD /content/site/index.html -> ")
	assert.Contains(t, stderr, "2 commands executed, 0 failed")

	s.ForceStatus(http.MethodPost, "/content/site/css", http.StatusForbidden)
	stdout, _, err = run(t, s, "push", local, "/content/site")
	require.Error(t, err)
	assert.Contains(t, stdout, "1 pushed, 1 failed, 1 ignored")
	assert.Contains(t, err.Error(), "/content/site/css/site.css")
	assert.Contains(t, err.Error(), "status code 403")
}

func TestWrongCredentials(t *testing.T) {
	t.Parallel()

	s := slingtest.NewServer()
	defer s.Close()

	_, stderr, err := run(t, s, "--password", "wrong", "--trace-summary", "content", "/content")
	require.Error(t, err)
	code, ok := it.StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, stderr, "1 commands executed, 1 failed")
}

func TestSplitNodePath(t *testing.T) {
	t.Parallel()

	for path, want := range map[string][2]string{
		"/content/a/b": {"/content/a", "b"},
		"content/a/":   {"/content", "a"},
		"/a":           {"/", "a"},
	} {
		fi, err := splitNodePath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want[0], fi.RelativeLocation, path)
		assert.Equal(t, want[1], fi.Name, path)
	}

	for _, path := range []string{"", "/", "../..", "/content/.."} {
		_, err := splitNodePath(path)
		assert.Error(t, err, path)
	}
}

func TestRootNodePathRejected(t *testing.T) {
	t.Parallel()

	s := slingtest.NewServer()
	defer s.Close()

	for _, args := range [][]string{
		{"delete", ""},
		{"delete", "/"},
		{"delete", "../.."},
		{"update", "/", "title=Home"},
		{"update", "..", "title=Home"},
	} {
		_, _, err := run(t, s, args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "invalid node path", args)
	}

	assert.Empty(t, s.Requests())
}

func TestPushColumns(t *testing.T) {
	t.Parallel()

	s := slingtest.NewServer()
	defer s.Close()

	local := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(local, "a.txt"), []byte("a"), 0o644))

	stdout, _, err := run(t, s, "push", local, "/content/site")
	require.NoError(t, err)
	assert.Contains(t, stdout, "    OK")
	assert.Contains(t, stdout, "/content/site/a.txt")
}
