package analysis

import "errors"

var (
	// ErrFileNotFound indicates the input path does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrParse indicates the input could not be read as a table.
	ErrParse = errors.New("parse error")
	// ErrColumnMissing indicates a required column is absent from the table.
	ErrColumnMissing = errors.New("column missing")
	// ErrTypeMismatch indicates a column holds values of an unexpected type.
	ErrTypeMismatch = errors.New("type mismatch")
)
