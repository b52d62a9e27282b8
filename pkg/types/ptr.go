package types

// Ptr returns a pointer to v. It is used to fill the optional fields of
// UserUpdate and ItemUpdate.
func Ptr[T any](v T) *T {
	return &v
}
