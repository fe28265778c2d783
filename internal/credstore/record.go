// Package credstore discovers and parses service-account credential files.
package credstore

// Record is one discovered credential file. Records are created once at
// startup and never mutated; rotation queues hold them by reference.
type Record struct {
	// FileName is the base name of the credential file. It is the rotation
	// identity used to match against the control endpoint's live state.
	FileName string

	// FilePath is the absolute path handed to the control endpoint on swap.
	FilePath string

	// ProjectID identifies the cloud project the account belongs to.
	ProjectID string

	// ClientEmail orders accounts deterministically within a project.
	ClientEmail string
}
