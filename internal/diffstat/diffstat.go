// Package diffstat turns unified-diff text into per-file, per-hunk
// line-change statistics. It is pure: no network, no filesystem, same
// output for the same input.
package diffstat

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/ericfisherdev/prpulse/internal/domain/model"
)

// Parse maps a unified diff onto model.DiffStats. Files are classified as
// added, deleted, modified, or renamed; a rename with content edits carries
// hunks and classifies as modified, so only unchanged renames get the
// renamed status.
func Parse(diffText string) (model.DiffStats, error) {
	fileDiffs, err := diff.ParseMultiFileDiff([]byte(diffText))
	if err != nil {
		return model.DiffStats{}, fmt.Errorf("parsing unified diff: %w", err)
	}

	files := make([]model.FileDiff, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		files = append(files, model.FileDiff{
			Path:   pathOf(fd),
			Status: statusOf(fd),
			Hunks:  countHunks(fd.Hunks),
		})
	}

	return model.DiffStats{Files: files}, nil
}

// pathOf returns the post-image path of the file, falling back to the
// pre-image path for deletions.
func pathOf(fd *diff.FileDiff) string {
	if fd.NewName != "/dev/null" && fd.NewName != "" {
		return stripGitPrefix(fd.NewName)
	}
	return stripGitPrefix(fd.OrigName)
}

func statusOf(fd *diff.FileDiff) model.FileStatus {
	switch {
	case fd.OrigName == "/dev/null":
		return model.FileAdded
	case fd.NewName == "/dev/null":
		return model.FileDeleted
	case len(fd.Hunks) == 0 && stripGitPrefix(fd.OrigName) != stripGitPrefix(fd.NewName):
		return model.FileRenamed
	default:
		return model.FileModified
	}
}

// countHunks tallies added and removed lines per hunk. Only lines beginning
// with '+' or '-' count; context lines and the no-newline marker do not.
func countHunks(hunks []*diff.Hunk) []model.Hunk {
	out := make([]model.Hunk, 0, len(hunks))
	for _, h := range hunks {
		var added, removed int
		for _, line := range bytes.Split(h.Body, []byte("\n")) {
			if len(line) == 0 {
				continue
			}
			switch line[0] {
			case '+':
				added++
			case '-':
				removed++
			}
		}
		out = append(out, model.Hunk{Added: added, Removed: removed})
	}
	return out
}

// stripGitPrefix removes the conventional a/ and b/ prefixes git puts on
// diff file names.
func stripGitPrefix(name string) string {
	if strings.HasPrefix(name, "a/") || strings.HasPrefix(name, "b/") {
		return name[2:]
	}
	return name
}
