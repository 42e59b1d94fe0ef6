package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/annodetect/classfile"
)

// TextEncoder writes one line per occurrence, e.g.
//
//	METHOD com.example.Service#start()V @com.example.Module
type TextEncoder struct {
	w io.Writer
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(occ classfile.Occurrence) error {
	var err error
	switch occ.Kind {
	case classfile.KindType:
		_, err = fmt.Fprintf(e.w, "%s %s @%s\n",
			occ.Kind, occ.DisplayName(), occ.AnnotationClass())
	case classfile.KindField:
		_, err = fmt.Fprintf(e.w, "%s %s#%s @%s\n",
			occ.Kind, occ.DisplayName(), occ.MemberName, occ.AnnotationClass())
	default:
		_, err = fmt.Fprintf(e.w, "%s %s#%s%s @%s\n",
			occ.Kind, occ.DisplayName(), occ.MemberName, occ.Descriptor, occ.AnnotationClass())
	}
	return err
}
