package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/annodetect/classfile"
)

// JSONEncoder writes one JSON object per occurrence, newline separated.
type JSONEncoder struct {
	enc *json.Encoder
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{enc: json.NewEncoder(w)}
}

type jsonOccurrence struct {
	Annotation string `json:"annotation"`
	Element    string `json:"element"`
	Type       string `json:"type"`
	Member     string `json:"member,omitempty"`
	Descriptor string `json:"descriptor,omitempty"`
}

func (e *JSONEncoder) Encode(occ classfile.Occurrence) error {
	return e.enc.Encode(jsonOccurrence{
		Annotation: occ.AnnotationClass(),
		Element:    occ.Kind.String(),
		Type:       occ.DisplayName(),
		Member:     occ.MemberName,
		Descriptor: occ.Descriptor,
	})
}
