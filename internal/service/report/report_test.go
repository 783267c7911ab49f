package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgaplan/estimator/internal/domain"
)

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, string, string, *domain.Run) (string, error) {
	return "", errors.New("engine unavailable")
}

func TestGenerate(t *testing.T) {
	svc := NewService(NoopRenderer{Dir: "outputs"}, nil)
	run := &domain.Run{ID: "run-1", ProjectName: "Projekt Nord"}

	artifacts, err := svc.Generate(context.Background(), "Projekt Nord", []string{"pdf", "md"}, run)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)

	assert.Equal(t, "pdf", artifacts[0].Format)
	assert.Equal(t, "md", artifacts[1].Format)
	for _, artifact := range artifacts {
		assert.NotEmpty(t, artifact.ID)
		assert.Equal(t, "run-1", artifact.RunID)
		assert.NotEmpty(t, artifact.Path)
		assert.NotEmpty(t, artifact.Name)
	}
	assert.NotEqual(t, artifacts[0].ID, artifacts[1].ID)
}

func TestGenerateRendererFailure(t *testing.T) {
	svc := NewService(failingRenderer{}, nil)

	_, err := svc.Generate(context.Background(), "Projekt Nord", []string{"pdf"}, &domain.Run{ID: "run-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render pdf")
}
