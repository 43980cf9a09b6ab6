package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prpulse/internal/domain/model"
)

func TestRenderMarkdown_EmptyInput(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}

func TestRenderMarkdown_Bold(t *testing.T) {
	result := RenderMarkdown("**bold text**")
	assert.Contains(t, result, "<strong>bold text</strong>")
}

func TestRenderMarkdown_GFMStrikethrough(t *testing.T) {
	result := RenderMarkdown("~~deleted~~")
	assert.Contains(t, result, "<del>deleted</del>")
}

func TestRenderMarkdown_SanitizesScript(t *testing.T) {
	result := RenderMarkdown(`<script>alert("xss")</script>`)
	assert.NotContains(t, result, "<script>")
}

func sampleScore(prNumber *int) model.Score {
	return model.Score{
		PRNumber: prNumber,
		Metrics: []model.Metric{
			{Kind: model.KindAmountOfParticipants, Value: 3},
			{Kind: model.KindAuthorCommentaryToChangesRatio, Value: 1.5},
			{Kind: model.KindTestToCodeRatio, Value: model.TestToCodeRatio{LOC: 15, TestLOC: 8, Ratio: 0.53}},
		},
	}
}

func TestBuild_RepositoryScore(t *testing.T) {
	data := Build("octocat/hello", sampleScore(nil), "", "")

	assert.Equal(t, "octocat/hello", data.Repo)
	assert.Nil(t, data.PRNumber)
	assert.Empty(t, data.PRBodyHTML)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, "Amount of Participants", data.Rows[0].Name)
	assert.Equal(t, "3", data.Rows[0].Value)
	assert.Equal(t, "1.50", data.Rows[1].Value)
	assert.Equal(t, "0.53 (15 loc / 8 test loc)", data.Rows[2].Value)
	assert.NotEmpty(t, data.Rows[0].Legend)
}

func TestBuild_SinglePRScore(t *testing.T) {
	n := 42
	data := Build("octocat/hello", sampleScore(&n), "Fix the frobnicator", "It was **broken**.")

	require.NotNil(t, data.PRNumber)
	assert.Equal(t, 42, *data.PRNumber)
	assert.Equal(t, "Fix the frobnicator", data.PRTitle)
	assert.Contains(t, string(data.PRBodyHTML), "<strong>broken</strong>")
}

func TestRender_RepositoryScore(t *testing.T) {
	var sb strings.Builder
	err := Render(&sb, Build("octocat/hello", sampleScore(nil), "", ""))

	require.NoError(t, err)
	out := sb.String()
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "octocat/hello")
	assert.NotContains(t, out, "PR #")
	assert.Contains(t, out, "Amount of Participants")
	assert.Contains(t, out, "0.53 (15 loc / 8 test loc)")
}

func TestRender_SinglePRScore(t *testing.T) {
	n := 42
	data := Build("octocat/hello", sampleScore(&n), "Fix the frobnicator", "It was **broken**.")

	var sb strings.Builder
	require.NoError(t, Render(&sb, data))

	out := sb.String()
	assert.Contains(t, out, "PR #42")
	assert.Contains(t, out, "Fix the frobnicator")
	assert.Contains(t, out, "<strong>broken</strong>")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")

	err := WriteFile(path, Build("octocat/hello", sampleScore(nil), "", ""))

	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "octocat/hello")
}

func TestWriteFile_BadPath(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "report.html"), Data{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating report file")
}
