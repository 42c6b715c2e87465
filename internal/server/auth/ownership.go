package auth

// Authorize reports whether resolved may act on a resource owned by owner.
func Authorize(resolved, owner int64) bool {
	return resolved == owner
}

// CheckOwner is Authorize as an error. Callers must surface ErrNotOwner the
// same way as a missing resource; it already matches common.ErrorNotFound.
func CheckOwner(resolved, owner int64) error {
	if !Authorize(resolved, owner) {
		return ErrNotOwner
	}
	return nil
}
