package classfile

import (
	"bytes"
	"encoding/binary"
)

// classWriter assembles synthetic class files for tests, big endian like
// the real thing.
type classWriter struct {
	bytes.Buffer
}

func (w *classWriter) u1(v uint8)  { w.WriteByte(v) }
func (w *classWriter) u2(v uint16) { binary.Write(w, binary.BigEndian, v) }
func (w *classWriter) u4(v uint32) { binary.Write(w, binary.BigEndian, v) }

func (w *classWriter) utf8Entry(s string) {
	w.u1(uint8(ConstantUtf8))
	w.u2(uint16(len(s)))
	w.WriteString(s)
}

func (w *classWriter) classEntry(nameIndex uint16) {
	w.u1(uint8(ConstantClass))
	w.u2(nameIndex)
}

func (w *classWriter) longEntry(v uint64) {
	w.u1(uint8(ConstantLong))
	binary.Write(w, binary.BigEndian, v)
}

func (w *classWriter) member(flags, nameIndex, descIndex uint16, attrs ...[]byte) {
	w.u2(flags)
	w.u2(nameIndex)
	w.u2(descIndex)
	w.u2(uint16(len(attrs)))
	for _, a := range attrs {
		w.Write(a)
	}
}

type elementPair struct {
	nameIndex uint16
	value     []byte
}

func scalarValue(tag byte, constIndex uint16) []byte {
	var w classWriter
	w.u1(tag)
	w.u2(constIndex)
	return w.Bytes()
}

func enumValue(typeIndex, constIndex uint16) []byte {
	var w classWriter
	w.u1(elemEnum)
	w.u2(typeIndex)
	w.u2(constIndex)
	return w.Bytes()
}

func arrayValue(values ...[]byte) []byte {
	var w classWriter
	w.u1(elemArray)
	w.u2(uint16(len(values)))
	for _, v := range values {
		w.Write(v)
	}
	return w.Bytes()
}

func nestedValue(anno []byte) []byte {
	var w classWriter
	w.u1(elemAnnotation)
	w.Write(anno)
	return w.Bytes()
}

func annotation(typeIndex uint16, pairs ...elementPair) []byte {
	var w classWriter
	w.u2(typeIndex)
	w.u2(uint16(len(pairs)))
	for _, p := range pairs {
		w.u2(p.nameIndex)
		w.Write(p.value)
	}
	return w.Bytes()
}

// annotationsAttr builds a complete attribute_info holding the given
// annotations, with the byte length computed from the actual body.
func annotationsAttr(attrNameIndex uint16, annos ...[]byte) []byte {
	var body classWriter
	body.u2(uint16(len(annos)))
	for _, a := range annos {
		body.Write(a)
	}
	var w classWriter
	w.u2(attrNameIndex)
	w.u4(uint32(body.Len()))
	w.Write(body.Bytes())
	return w.Bytes()
}

// opaqueAttr builds an attribute the decoder does not understand.
func opaqueAttr(attrNameIndex uint16, payload []byte) []byte {
	var w classWriter
	w.u2(attrNameIndex)
	w.u4(uint32(len(payload)))
	w.Write(payload)
	return w.Bytes()
}

// emptyClass is a well-formed class with no fields, methods or attributes.
func emptyClass(internalName string) []byte {
	var w classWriter
	w.u4(Magic)
	w.u2(0)  // minor_version
	w.u2(52) // major_version
	w.u2(3)  // constant_pool_count
	w.utf8Entry(internalName) // #1
	w.classEntry(1)           // #2
	w.u2(0x0021)              // access_flags
	w.u2(2)                   // this_class
	w.u2(0)                   // super_class
	w.u2(0)                   // interfaces_count
	w.u2(0)                   // fields_count
	w.u2(0)                   // methods_count
	w.u2(0)                   // attributes_count
	return w.Bytes()
}

// Pool layout shared by the annotated fixtures.
const (
	poolTypeName   = 1  // Utf8 "com/example/Sample"
	poolThisClass  = 2  // Class -> 1
	poolRVAName    = 3  // Utf8 "RuntimeVisibleAnnotations"
	poolMarker     = 4  // Utf8 "Lcom/example/Marker;"
	poolOther      = 5  // Utf8 "Lcom/example/Other;"
	poolFieldName  = 6  // Utf8 "count"
	poolFieldDesc  = 7  // Utf8 "I"
	poolCtorName   = 8  // Utf8 "<init>"
	poolCtorDesc   = 9  // Utf8 "()V"
	poolMethodName = 10 // Utf8 "run"
	poolMethodDesc = 11 // Utf8 "(Ljava/lang/String;II)I"
	poolRIAName    = 12 // Utf8 "RuntimeInvisibleAnnotations"
	poolDeprecated = 13 // Utf8 "Deprecated"
)

func writeSamplePool(w *classWriter) {
	w.u2(14) // constant_pool_count
	w.utf8Entry("com/example/Sample")
	w.classEntry(poolTypeName)
	w.utf8Entry(attrRuntimeVisibleAnnotations)
	w.utf8Entry("Lcom/example/Marker;")
	w.utf8Entry("Lcom/example/Other;")
	w.utf8Entry("count")
	w.utf8Entry("I")
	w.utf8Entry("<init>")
	w.utf8Entry("()V")
	w.utf8Entry("run")
	w.utf8Entry("(Ljava/lang/String;II)I")
	w.utf8Entry(attrRuntimeInvisibleAnnotations)
	w.utf8Entry("Deprecated")
}

// annotatedClass carries the Marker annotation on a field, a constructor,
// a method and the type itself. The method also carries an unrequested
// annotation with element-value pairs, and every member has an extra
// attribute the decoder must skip by length.
func annotatedClass() []byte {
	var w classWriter
	w.u4(Magic)
	w.u2(0)
	w.u2(52)
	writeSamplePool(&w)
	w.u2(0x0021) // access_flags
	w.u2(poolThisClass)
	w.u2(0) // super_class
	w.u2(0) // interfaces_count

	w.u2(1) // fields_count
	w.member(0x0002, poolFieldName, poolFieldDesc,
		annotationsAttr(poolRVAName, annotation(poolMarker)),
		opaqueAttr(poolDeprecated, nil),
	)

	w.u2(2) // methods_count
	w.member(0x0001, poolCtorName, poolCtorDesc,
		annotationsAttr(poolRIAName, annotation(poolMarker)),
	)
	w.member(0x0001, poolMethodName, poolMethodDesc,
		annotationsAttr(poolRVAName,
			annotation(poolOther,
				elementPair{poolFieldName, scalarValue(elemString, poolFieldDesc)},
				elementPair{poolFieldName, enumValue(poolTypeName, poolFieldName)},
			),
			annotation(poolMarker),
		),
	)

	w.u2(1) // attributes_count
	w.Write(annotationsAttr(poolRVAName,
		annotation(poolMarker,
			elementPair{poolFieldName, arrayValue(
				scalarValue(elemInt, poolFieldDesc),
				scalarValue(elemInt, poolFieldDesc),
			)},
			elementPair{poolFieldName, nestedValue(annotation(poolOther))},
		),
	))
	return w.Bytes()
}

func decodeAll(data []byte, annotations []string, kinds KindSet) ([]Occurrence, error) {
	buf := NewBuffer()
	if err := buf.LoadFrom(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	var got []Occurrence
	err := NewDecoder(annotations, kinds).Decode(buf, func(o Occurrence) error {
		got = append(got, o)
		return nil
	})
	return got, err
}
