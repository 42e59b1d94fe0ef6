package classfile

import "errors"

var (
	// ErrUnexpectedEOF reports a read past the end of the loaded class file
	// data, i.e. a truncated payload.
	ErrUnexpectedEOF = errors.New("unexpected end of class file data")

	// ErrMalformedConstantPool reports a constant pool inconsistent with the
	// class file format, such as an unknown entry tag or a reference to an
	// unusable pool slot.
	ErrMalformedConstantPool = errors.New("malformed constant pool")

	// ErrMalformedDescriptor reports a method descriptor that does not
	// follow the "(" {FieldType} ")" ReturnType grammar. Descriptors come
	// from well-formed class files, so this indicates corrupt input rather
	// than a recoverable condition.
	ErrMalformedDescriptor = errors.New("malformed method descriptor")

	// ErrNotClassFile reports a payload that does not start with the class
	// file magic number. Callers normally skip such payloads: some resources
	// share the ".class" extension with other binary formats.
	ErrNotClassFile = errors.New("missing class file magic number")
)
