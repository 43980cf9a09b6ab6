package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHunkNetAdded(t *testing.T) {
	assert.Equal(t, 3, Hunk{Added: 5, Removed: 2}.NetAdded())
	assert.Equal(t, 0, Hunk{Added: 2, Removed: 5}.NetAdded(), "removal-heavy hunks floor at zero")
	assert.Equal(t, 0, Hunk{}.NetAdded())
}

func TestFileDiffIsTest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"internal/foo/bar_test.go", true},
		{"tests/helper.py", true},
		{"Test/Widget.cs", true},
		{"src/main.go", false},
		// Substring matching has known false positives.
		{"src/contest.go", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileDiff{Path: tt.path}.IsTest(), tt.path)
	}
}

func TestDiffStats_NetLineCounts(t *testing.T) {
	stats := DiffStats{Files: []FileDiff{
		{Path: "pkg/frobnicator.go", Status: FileModified, Hunks: []Hunk{{Added: 20, Removed: 5}}},
		{Path: "pkg/frobnicator_test.go", Status: FileAdded, Hunks: []Hunk{{Added: 10, Removed: 2}}},
		{Path: "pkg/legacy.go", Status: FileDeleted, Hunks: []Hunk{{Added: 0, Removed: 30}}},
		{Path: "pkg/renamed_test.go", Status: FileRenamed},
	}}

	assert.Equal(t, 15, stats.NetNonTestLines())
	assert.Equal(t, 8, stats.NetTestLines())
}

func TestDiffStats_TotalChangesCountsEveryLine(t *testing.T) {
	stats := DiffStats{Files: []FileDiff{
		{Path: "pkg/frobnicator.go", Status: FileModified, Hunks: []Hunk{{Added: 20, Removed: 5}}},
		{Path: "pkg/frobnicator_test.go", Status: FileAdded, Hunks: []Hunk{{Added: 10, Removed: 2}}},
		{Path: "pkg/legacy.go", Status: FileDeleted, Hunks: []Hunk{{Added: 0, Removed: 30}}},
	}}

	// Deleted files still count toward gross churn.
	assert.Equal(t, 67, stats.TotalChanges())
}

func TestDiffStats_Empty(t *testing.T) {
	var stats DiffStats
	assert.Zero(t, stats.NetTestLines())
	assert.Zero(t, stats.NetNonTestLines())
	assert.Zero(t, stats.TotalChanges())
}
