package internal

// PanicOnError turns err into a panic. The CLI reaches for it through Must
// when a failure means its own setup is broken.
func PanicOnError(err error) {
	if err != nil {
		panic(err)
	}
}

// Must returns value, panicking if err is non-nil.
func Must[T any](value T, err error) T {
	PanicOnError(err)
	return value
}
