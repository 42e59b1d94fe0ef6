package classfile

import (
	"fmt"
	"strings"
)

// FieldType is one semantic parameter or return type from a method
// descriptor: a primitive, an object reference by internal name, or an
// array of either.
type FieldType struct {
	BaseType   string
	ClassName  string
	ArrayDepth int
}

func (ft *FieldType) String() string {
	var sb strings.Builder
	if ft.BaseType != "" {
		sb.WriteString(ft.BaseType)
	} else if ft.ClassName != "" {
		sb.WriteString(strings.ReplaceAll(ft.ClassName, "/", "."))
	}
	for i := 0; i < ft.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (ft *FieldType) IsArray() bool { return ft.ArrayDepth > 0 }

func (ft *FieldType) IsPrimitive() bool { return ft.BaseType != "" && ft.ArrayDepth == 0 }

func (ft *FieldType) IsReference() bool { return ft.ClassName != "" || ft.ArrayDepth > 0 }

// MethodDescriptor is the parsed form of a raw method descriptor like
// "(Ljava/lang/String;II)I". A nil ReturnType means void.
type MethodDescriptor struct {
	Parameters []FieldType
	ReturnType *FieldType
}

func (md *MethodDescriptor) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, p := range md.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	if md.ReturnType != nil {
		sb.WriteString(" ")
		sb.WriteString(md.ReturnType.String())
	} else {
		sb.WriteString(" void")
	}
	return sb.String()
}

// ParseMethodDescriptor parses "(" {FieldType} ")" ReturnType left to
// right. Descriptors come from well-formed class files by construction, so
// any structural violation is ErrMalformedDescriptor.
func ParseMethodDescriptor(desc string) (*MethodDescriptor, error) {
	if len(desc) < 3 || desc[0] != '(' {
		return nil, fmt.Errorf("%w: %q does not start with a parameter list", ErrMalformedDescriptor, desc)
	}

	md := &MethodDescriptor{}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		ft, consumed, err := parseFieldType(desc, i)
		if err != nil {
			return nil, err
		}
		md.Parameters = append(md.Parameters, *ft)
		i += consumed
	}

	if i >= len(desc) {
		return nil, fmt.Errorf("%w: %q has no closing parenthesis", ErrMalformedDescriptor, desc)
	}
	i++ // ')'

	if i >= len(desc) {
		return nil, fmt.Errorf("%w: %q has no return type", ErrMalformedDescriptor, desc)
	}
	if desc[i] != 'V' {
		ret, _, err := parseFieldType(desc, i)
		if err != nil {
			return nil, err
		}
		md.ReturnType = ret
	}
	return md, nil
}

func parseFieldType(desc string, start int) (*FieldType, int, error) {
	ft := &FieldType{}
	i := start
	for i < len(desc) && desc[i] == '[' {
		ft.ArrayDepth++
		i++
	}
	if i >= len(desc) {
		return nil, 0, fmt.Errorf("%w: %q ends inside an array type", ErrMalformedDescriptor, desc)
	}

	switch desc[i] {
	case 'B':
		ft.BaseType = "byte"
	case 'C':
		ft.BaseType = "char"
	case 'D':
		ft.BaseType = "double"
	case 'F':
		ft.BaseType = "float"
	case 'I':
		ft.BaseType = "int"
	case 'J':
		ft.BaseType = "long"
	case 'S':
		ft.BaseType = "short"
	case 'Z':
		ft.BaseType = "boolean"
	case 'L':
		semicolon := strings.IndexByte(desc[i:], ';')
		if semicolon == -1 {
			return nil, 0, fmt.Errorf("%w: unterminated object type in %q", ErrMalformedDescriptor, desc)
		}
		ft.ClassName = desc[i+1 : i+semicolon]
		return ft, i - start + semicolon + 1, nil
	default:
		return nil, 0, fmt.Errorf("%w: unrecognized type code %q in %q", ErrMalformedDescriptor, desc[i], desc)
	}
	return ft, i - start + 1, nil
}

// InternalToSourceName converts "java/lang/String" to "java.lang.String".
func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

// SourceToInternalName converts "java.lang.String" to "java/lang/String".
func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
