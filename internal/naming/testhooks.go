package naming

// SetExistsForTests swaps the on-disk existence check of a and returns a restore func.
func (a *Allocator) SetExistsForTests(fn func(string) bool) func() {
	prev := a.exists
	a.exists = fn
	return func() { a.exists = prev }
}
