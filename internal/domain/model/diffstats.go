package model

import "strings"

// FileStatus classifies how a diff affected a file.
type FileStatus string

const (
	FileAdded    FileStatus = "added"
	FileModified FileStatus = "modified"
	FileDeleted  FileStatus = "deleted"
	FileRenamed  FileStatus = "renamed"
)

// Hunk is one contiguous block of changes within a file diff.
type Hunk struct {
	Added   int
	Removed int
}

// NetAdded returns the hunk's added-line surplus, floored at zero. A hunk
// that removes more than it adds contributes nothing rather than a negative
// count, so rewrites are not penalized below zero.
func (h Hunk) NetAdded() int {
	if n := h.Added - h.Removed; n > 0 {
		return n
	}
	return 0
}

// FileDiff is the per-file portion of a parsed unified diff.
type FileDiff struct {
	Path   string
	Status FileStatus
	Hunks  []Hunk
}

// IsTest reports whether the file looks like a test file. The heuristic is a
// case-insensitive "test" substring anywhere in the path, which catches
// conventional test layouts across languages at the cost of false positives
// such as "contest.go".
func (f FileDiff) IsTest() bool {
	return strings.Contains(strings.ToLower(f.Path), "test")
}

// changed reports whether the file contributes lines to net-added counts.
// Deleted and renamed files are excluded: a deletion adds nothing and a pure
// rename moves lines without writing new ones.
func (f FileDiff) changed() bool {
	return f.Status == FileAdded || f.Status == FileModified
}

// netAdded sums the net-added lines across the file's hunks.
func (f FileDiff) netAdded() int {
	var n int
	for _, h := range f.Hunks {
		n += h.NetAdded()
	}
	return n
}

// DiffStats is the line-change summary parsed from a pull request's unified
// diff.
type DiffStats struct {
	Files []FileDiff
}

// NetTestLines returns the net lines added to test files by added or
// modified file entries.
func (d DiffStats) NetTestLines() int {
	var n int
	for _, f := range d.Files {
		if f.changed() && f.IsTest() {
			n += f.netAdded()
		}
	}
	return n
}

// NetNonTestLines returns the net lines added to non-test files by added or
// modified file entries.
func (d DiffStats) NetNonTestLines() int {
	var n int
	for _, f := range d.Files {
		if f.changed() && !f.IsTest() {
			n += f.netAdded()
		}
	}
	return n
}

// TotalChanges returns the gross size of the diff: added plus removed lines
// over every hunk of every file, regardless of file status.
func (d DiffStats) TotalChanges() int {
	var n int
	for _, f := range d.Files {
		for _, h := range f.Hunks {
			n += h.Added + h.Removed
		}
	}
	return n
}
