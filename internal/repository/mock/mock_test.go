// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package mock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/sling-transport/internal/repository"
	"github.com/hashicorp-forge/sling-transport/internal/trace"
	it "github.com/hashicorp-forge/sling-transport/internal/transport"
)

func TestMockRepository(t *testing.T) {
	t.Parallel()

	rec := trace.NewRecorder()
	repo := New(
		WithInfo(repository.RepositoryInfo{URL: "http://mock"}),
		WithFailure("/content/bad", it.NewStatusError(500)),
	)
	repo.BindTracer(rec)

	ok := repo.NewAddNodeCommand(repository.FileInfo{Name: "good", RelativeLocation: "/content"}).Execute()
	assert.True(t, ok.IsSuccess())

	bad := repo.NewDeleteNodeCommand(repository.FileInfo{Name: "bad", RelativeLocation: "/content"}).Execute()
	code, isStatus := it.StatusCode(bad.Err())
	require.True(t, isStatus)
	assert.Equal(t, 500, code)

	body := repo.NewGetNodeCommand("/content/good").Execute()
	assert.Nil(t, body.Get())

	repo.UnbindTracer()
	repo.NewListChildrenNodeCommand("/content", repository.JSON).Execute()
	repo.NewGetNodeContentCommand("/content/good", repository.XML).Execute()

	assert.Equal(t, []string{
		"     ADD /content/good",
		"  DELETE /content/bad",
		" GETNODE /content/good",
		"  LISTCH /content (JSON)",
		" GETCONT /content/good (XML)",
	}, repo.Executed())
	assert.Len(t, rec.Records(), 3)
	assert.Equal(t, "http://mock", repo.Info().URL)
}

func TestMockDescriptionsMatchClient(t *testing.T) {
	t.Parallel()

	mockRepo := New()
	client := repository.NewClient(repository.RepositoryInfo{URL: "http://localhost:8080"})
	fi := repository.FileInfo{Name: "page", RelativeLocation: "/content"}

	for _, rt := range []repository.ResponseType{repository.JSON, repository.XML} {
		assert.Equal(t,
			client.NewListChildrenNodeCommand("/content", rt).Description(),
			mockRepo.NewListChildrenNodeCommand("/content", rt).Description(),
		)
		assert.Equal(t,
			client.NewGetNodeContentCommand("/content", rt).Description(),
			mockRepo.NewGetNodeContentCommand("/content", rt).Description(),
		)
	}
	assert.Equal(t, client.NewAddNodeCommand(fi).Description(), mockRepo.NewAddNodeCommand(fi).Description())
	assert.Equal(t, client.NewDeleteNodeCommand(fi).Description(), mockRepo.NewDeleteNodeCommand(fi).Description())
	assert.Equal(t, client.NewGetNodeCommand("/content").Description(), mockRepo.NewGetNodeCommand("/content").Description())
	assert.Equal(t,
		client.NewUpdateContentNodeCommand(fi, map[string]string{}).Description(),
		mockRepo.NewUpdateContentNodeCommand(fi, map[string]string{}).Description(),
	)
}
