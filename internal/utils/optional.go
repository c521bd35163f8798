// Package utils holds helpers for optional fields, such as a token expiry
// the provider may leave out.
package utils

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// Value reads an optional field; nil reads as the zero value.
func Value[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// Copy returns a new pointer to the same value, or nil for nil, so a copied
// record never shares an optional field with its source.
func Copy[T any](v *T) *T {
	if v == nil {
		return nil
	}
	return Ptr(*v)
}
