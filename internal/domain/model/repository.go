package model

// RepositoryHandle is the resolved identity of a repository under analysis.
// FullName carries the canonical "owner/name" form as reported by the API,
// which may differ in case from what the user typed.
type RepositoryHandle struct {
	Owner    string
	Name     string
	FullName string
}

func (r RepositoryHandle) String() string {
	return r.FullName
}
