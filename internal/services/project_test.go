package services

import (
	"context"
	"testing"

	"portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProjects(t *testing.T, repo *mockProjectRepo) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []*models.Project{
		{GithubID: 1, Name: "api", IsApproved: true},
		{GithubID: 2, Name: "draft"},
	} {
		ok, err := repo.Insert(ctx, p)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestProjectService_ListPublicOnlyApproved(t *testing.T) {
	repo := newMockProjectRepo()
	seedProjects(t, repo)
	svc := NewProjectService(repo)

	public, err := svc.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "api", public[0].Name)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProjectService_ApproveMakesProjectPublic(t *testing.T) {
	repo := newMockProjectRepo()
	seedProjects(t, repo)
	svc := NewProjectService(repo)
	ctx := context.Background()

	approved := true
	p, err := svc.Update(ctx, 2, &models.UpdateProjectRequest{IsApproved: &approved})
	require.NoError(t, err)
	assert.True(t, p.IsApproved)

	public, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Len(t, public, 2)
}

func TestProjectService_UnknownID(t *testing.T) {
	svc := NewProjectService(newMockProjectRepo())
	ctx := context.Background()

	name := "x"
	_, err := svc.Update(ctx, 99, &models.UpdateProjectRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 99), ErrNotFound)
}

func TestProjectService_Delete(t *testing.T) {
	repo := newMockProjectRepo()
	seedProjects(t, repo)
	svc := NewProjectService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, 1))
	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "draft", all[0].Name)
}
