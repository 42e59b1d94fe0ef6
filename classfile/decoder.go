package classfile

import "fmt"

// ReporterFunc receives each occurrence as soon as it is decoded. Returning
// an error aborts the decode.
type ReporterFunc func(Occurrence) error

// Decoder extracts annotation occurrences from class files in a single
// streaming pass. It decodes just enough structure to locate annotation
// attributes on types, fields, constructors and methods; every attribute it
// does not understand is skipped by its declared byte length, which keeps
// the decoder forward compatible with unknown attribute kinds.
type Decoder struct {
	annotations map[string]struct{}
	kinds       KindSet
}

// NewDecoder returns a decoder reporting occurrences of the given raw
// annotation type names (e.g. "Lcom/example/Module;") on the given element
// kinds.
func NewDecoder(annotations []string, kinds KindSet) *Decoder {
	set := make(map[string]struct{}, len(annotations))
	for _, a := range annotations {
		set[a] = struct{}{}
	}
	return &Decoder{annotations: set, kinds: kinds}
}

// decodeContext is the decoder's current position within the file. It is
// mutated in place as decoding advances; every emission copies it into an
// immutable Occurrence before the reporter sees it.
type decodeContext struct {
	typeName   string
	memberName string
	kind       ElementKind
	descriptor string
}

// Decode runs one pass over the loaded class file and reports matching
// occurrences in file order: fields, then methods, then type-level
// attributes. It returns ErrNotClassFile when the payload does not start
// with the magic marker, which callers treat as "skip", not as a failure.
func (d *Decoder) Decode(buf *Buffer, report ReporterFunc) error {
	magic := buf.ReadU4()
	if buf.Err() != nil || magic != Magic {
		return ErrNotClassFile
	}
	buf.Skip(4) // minor_version, major_version
	pool, err := readConstantPool(buf)
	if err != nil {
		return err
	}

	buf.Skip(2) // access_flags
	thisClass := buf.ReadU2()
	if err := buf.Err(); err != nil {
		return err
	}
	typeName, err := pool.Utf8(thisClass)
	if err != nil {
		return err
	}

	buf.Skip(2) // super_class
	interfaceCount := int(buf.ReadU2())
	buf.Skip(2 * interfaceCount)
	if err := buf.Err(); err != nil {
		return err
	}

	ctx := &decodeContext{typeName: typeName}

	fieldCount := int(buf.ReadU2())
	if err := buf.Err(); err != nil {
		return err
	}
	for i := 0; i < fieldCount; i++ {
		buf.Skip(2) // access_flags
		nameIndex := buf.ReadU2()
		buf.Skip(2) // field descriptor, not needed
		if err := buf.Err(); err != nil {
			return err
		}
		name, err := pool.Utf8(nameIndex)
		if err != nil {
			return err
		}
		ctx.kind = KindField
		ctx.memberName = name
		ctx.descriptor = ""
		if err := d.readAttributes(buf, pool, ctx, report); err != nil {
			return err
		}
	}

	methodCount := int(buf.ReadU2())
	if err := buf.Err(); err != nil {
		return err
	}
	for i := 0; i < methodCount; i++ {
		buf.Skip(2) // access_flags
		nameIndex := buf.ReadU2()
		descIndex := buf.ReadU2()
		if err := buf.Err(); err != nil {
			return err
		}
		name, err := pool.Utf8(nameIndex)
		if err != nil {
			return err
		}
		descriptor, err := pool.Utf8(descIndex)
		if err != nil {
			return err
		}
		if name == constructorName {
			ctx.kind = KindConstructor
		} else {
			ctx.kind = KindMethod
		}
		ctx.memberName = name
		ctx.descriptor = descriptor
		if err := d.readAttributes(buf, pool, ctx, report); err != nil {
			return err
		}
	}

	ctx.kind = KindType
	ctx.memberName = ""
	ctx.descriptor = ""
	return d.readAttributes(buf, pool, ctx, report)
}

func (d *Decoder) readAttributes(buf *Buffer, pool ConstantPool, ctx *decodeContext, report ReporterFunc) error {
	count := int(buf.ReadU2())
	if err := buf.Err(); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		nameIndex := buf.ReadU2()
		length := int(buf.ReadU4())
		if err := buf.Err(); err != nil {
			return err
		}
		name, err := pool.Utf8(nameIndex)
		if err != nil {
			return err
		}
		if d.kinds.Contains(ctx.kind) &&
			(name == attrRuntimeVisibleAnnotations || name == attrRuntimeInvisibleAnnotations) {
			if err := d.readAnnotations(buf, pool, ctx, report); err != nil {
				return err
			}
		} else {
			// The declared length is what keeps the cursor aligned across
			// attributes this decoder does not understand.
			buf.Skip(length)
			if err := buf.Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Decoder) readAnnotations(buf *Buffer, pool ConstantPool, ctx *decodeContext, report ReporterFunc) error {
	count := int(buf.ReadU2())
	if err := buf.Err(); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		rawName, err := d.readAnnotation(buf, pool)
		if err != nil {
			return err
		}
		if _, requested := d.annotations[rawName]; !requested {
			continue
		}
		occ := Occurrence{
			Annotation: rawName,
			Kind:       ctx.kind,
			TypeName:   ctx.typeName,
			MemberName: ctx.memberName,
			Descriptor: ctx.descriptor,
		}
		if err := report(occ); err != nil {
			return err
		}
	}
	return nil
}

// readAnnotation consumes one annotation structure and returns its raw type
// name. Element-value pairs are parsed and skipped even for annotations
// nobody asked for, so the cursor stays aligned for the entries after them.
func (d *Decoder) readAnnotation(buf *Buffer, pool ConstantPool) (string, error) {
	typeIndex := buf.ReadU2()
	pairs := int(buf.ReadU2())
	if err := buf.Err(); err != nil {
		return "", err
	}
	rawName, err := pool.Utf8(typeIndex)
	if err != nil {
		return "", err
	}
	for i := 0; i < pairs; i++ {
		buf.Skip(2) // element_name_index
		if err := d.readElementValue(buf, pool); err != nil {
			return "", err
		}
	}
	return rawName, nil
}

func (d *Decoder) readElementValue(buf *Buffer, pool ConstantPool) error {
	tag := buf.ReadU1()
	if err := buf.Err(); err != nil {
		return err
	}
	switch tag {
	case elemByte, elemChar, elemDouble, elemFloat, elemInt, elemLong,
		elemShort, elemBoolean, elemString, elemClass:
		buf.Skip(2) // const_value_index or class_info_index
	case elemEnum:
		buf.Skip(4) // type_name_index, const_name_index
	case elemAnnotation:
		if _, err := d.readAnnotation(buf, pool); err != nil {
			return err
		}
	case elemArray:
		n := int(buf.ReadU2())
		if err := buf.Err(); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := d.readElementValue(buf, pool); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("invalid annotation element value tag 0x%X at offset %d", tag, buf.Pos())
	}
	return buf.Err()
}
