// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package test

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/hashicorp-forge/sling-transport/internal/repository"
	"github.com/hashicorp-forge/sling-transport/internal/trace"
	it "github.com/hashicorp-forge/sling-transport/internal/transport"
)

// RepositoryTestSuite a test suite that can be used to test any repository.
// Every test works below its own randomly named node which is deleted when
// the test finishes.
type RepositoryTestSuite struct {
	suite.Suite
	repositoryFn func(t *testing.T) repository.Repository
	repo         repository.Repository
	root         string
}

func NewRepositoryTestSuite(repositoryFn func(t *testing.T) repository.Repository) *RepositoryTestSuite {
	s := new(RepositoryTestSuite)
	s.repositoryFn = repositoryFn

	return s
}

func (s *RepositoryTestSuite) SetupTest() {
	s.repo = nil
	s.repo = s.repositoryFn(s.T())
	s.root = "/tmp/sling-transport-" + uuid.NewString()
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.repo == nil {
		return
	}

	s.repo.NewDeleteNodeCommand(repository.FileInfo{
		Name:             path.Base(s.root),
		RelativeLocation: path.Dir(s.root),
	}).Execute()
}

func (s *RepositoryTestSuite) properties(nodePath string) map[string]interface{} {
	t := s.T()

	res := s.repo.NewGetNodeContentCommand(nodePath, repository.JSON).Execute()
	body, err := res.Value()
	require.NoError(t, err)

	props := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(body), &props))

	return props
}

func (s *RepositoryTestSuite) TestAddGetDelete() {
	t := s.T()

	src := filepath.Join(t.TempDir(), "readme.txt")
	require.NoError(t, os.WriteFile(src, []byte("read me"), 0o644))

	fi := repository.FileInfo{Name: "readme.txt", RelativeLocation: s.root, Location: src}

	res := s.repo.NewAddNodeCommand(fi).Execute()
	require.True(t, res.IsSuccess(), res.String())

	body := s.repo.NewGetNodeCommand(fi.NodePath()).Execute()
	require.True(t, body.IsSuccess(), body.String())
	require.Equal(t, []byte("read me"), body.Get())

	res = s.repo.NewDeleteNodeCommand(fi).Execute()
	require.True(t, res.IsSuccess(), res.String())

	body = s.repo.NewGetNodeCommand(fi.NodePath()).Execute()
	code, ok := it.StatusCode(body.Err())
	require.True(t, ok, body.String())
	require.Equal(t, 404, code)
}

func (s *RepositoryTestSuite) TestUpdateContent() {
	t := s.T()

	fi := repository.FileInfo{Name: "page", RelativeLocation: s.root}
	res := s.repo.NewUpdateContentNodeCommand(fi, map[string]string{
		"title":       "Hello",
		"description": "A page",
	}).Execute()
	require.True(t, res.IsSuccess(), res.String())

	props := s.properties(s.root)
	require.Equal(t, "Hello", props["title"])
	require.Equal(t, "A page", props["description"])

	res = s.repo.NewUpdateContentNodeCommand(fi, map[string]string{"title": "Bye"}).Execute()
	require.True(t, res.IsSuccess(), res.String())
	require.Equal(t, "Bye", s.properties(s.root)["title"])
}

func (s *RepositoryTestSuite) TestListChildren() {
	t := s.T()

	for _, name := range []string{"a", "b", "c"} {
		res := s.repo.NewUpdateContentNodeCommand(
			repository.FileInfo{Name: name, RelativeLocation: s.root + "/" + name},
			map[string]string{"name": name},
		).Execute()
		require.True(t, res.IsSuccess(), res.String())
	}

	res := s.repo.NewListChildrenNodeCommand(s.root, repository.JSON).Execute()
	body, err := res.Value()
	require.NoError(t, err)

	children := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(body), &children))
	for _, name := range []string{"a", "b", "c"} {
		require.Contains(t, children, name)
	}
}

func (s *RepositoryTestSuite) TestMissingNode() {
	t := s.T()

	for _, res := range []interface{ Err() *it.RepositoryError }{
		s.repo.NewGetNodeCommand(s.root + "/missing").Execute(),
		s.repo.NewGetNodeContentCommand(s.root+"/missing", repository.JSON).Execute(),
		s.repo.NewListChildrenNodeCommand(s.root+"/missing", repository.JSON).Execute(),
	} {
		code, ok := it.StatusCode(res.Err())
		require.True(t, ok)
		require.Equal(t, 404, code)
	}
}

func (s *RepositoryTestSuite) TestTracing() {
	t := s.T()

	rec := trace.NewRecorder()
	s.repo.BindTracer(rec)
	defer s.repo.UnbindTracer()

	fi := repository.FileInfo{Name: "traced", RelativeLocation: s.root}
	s.repo.NewUpdateContentNodeCommand(fi, map[string]string{"x": "y"}).Execute()
	s.repo.NewGetNodeCommand(s.root + "/missing").Execute()

	records := rec.Records()
	require.Len(t, records, 2)
	require.Equal(t, "  UPDATE "+fi.NodePath(), records[0].Description)
	require.True(t, records[0].Succeeded())
	require.Equal(t, " GETNODE "+s.root+"/missing", records[1].Description)
	require.False(t, records[1].Succeeded())
}
