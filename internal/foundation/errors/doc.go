// Package errors provides the classified error type used across mvdocs.
//
// Every failure that can stop a build is reported as a ClassifiedError carrying
// a category (config, validation, git, build, render, filesystem, internal), a
// severity and a small context map. The CLI adapter turns the category into a
// process exit code.
//
// Example usage:
//
//	err := errors.FileSystemError("write redirect file").
//		WithCause(ioErr).
//		WithContext("path", outFile).
//		Build()
package errors
