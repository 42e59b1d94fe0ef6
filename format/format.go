// Package format renders annotation occurrences for human or machine
// consumption. Encoders are streaming: one occurrence in, one record out.
package format

import "github.com/dhamidi/annodetect/classfile"

type Encoder interface {
	Encode(occ classfile.Occurrence) error
}
