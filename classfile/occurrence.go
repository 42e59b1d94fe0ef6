package classfile

import "strings"

// ElementKind identifies which kind of program element an annotation is
// attached to.
type ElementKind uint8

const (
	KindType ElementKind = iota
	KindConstructor
	KindMethod
	KindField
)

func (k ElementKind) String() string {
	switch k {
	case KindType:
		return "TYPE"
	case KindConstructor:
		return "CONSTRUCTOR"
	case KindMethod:
		return "METHOD"
	case KindField:
		return "FIELD"
	}
	return "UNKNOWN"
}

// KindSet is a set of element kinds.
type KindSet uint8

func NewKindSet(kinds ...ElementKind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

func (s KindSet) Contains(k ElementKind) bool { return s&(1<<k) != 0 }

// Occurrence is one annotation usage found during a decode. It is immutable
// once emitted and carries everything an external resolver needs to locate
// the annotated element: the owning type, the member name and, for
// constructors and methods, the raw descriptor.
type Occurrence struct {
	// Annotation is the raw annotation type name as it appears in the class
	// file, e.g. "Lcom/example/Module;".
	Annotation string
	Kind       ElementKind
	// TypeName is the internal (slash-separated) name of the owning type.
	TypeName string
	// MemberName is the field or method name; empty for KindType.
	MemberName string
	// Descriptor is the raw method descriptor, set only for KindConstructor
	// and KindMethod.
	Descriptor string
}

// DisplayName returns the owning type name in dotted source form.
func (o Occurrence) DisplayName() string {
	return strings.ReplaceAll(o.TypeName, "/", ".")
}

// AnnotationClass returns the dotted class name of the annotation, i.e.
// "Lcom/example/Module;" becomes "com.example.Module".
func (o Occurrence) AnnotationClass() string {
	name := strings.TrimSuffix(strings.TrimPrefix(o.Annotation, "L"), ";")
	return strings.ReplaceAll(name, "/", ".")
}

// ParameterTypes parses the occurrence's method descriptor. It is only
// meaningful for KindConstructor and KindMethod occurrences.
func (o Occurrence) ParameterTypes() ([]FieldType, error) {
	desc, err := ParseMethodDescriptor(o.Descriptor)
	if err != nil {
		return nil, err
	}
	return desc.Parameters, nil
}
