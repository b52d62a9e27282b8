// Package types defines the entity records of the re-use registry (users,
// item types, items), their partial-update forms, the snapshot layout, the
// configuration, and the standard error values shared by the store, the
// registry, and the CLI.
package types
