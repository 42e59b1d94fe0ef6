package classfile

// Magic is the 4-byte marker every class file starts with.
const Magic = 0xCAFEBABE

// constructorName is the reserved name of instance initializers.
const constructorName = "<init>"

// Annotations with runtime retention live in the first attribute, class
// retention in the second. Both are decoded identically.
const (
	attrRuntimeVisibleAnnotations   = "RuntimeVisibleAnnotations"
	attrRuntimeInvisibleAnnotations = "RuntimeInvisibleAnnotations"
)

type ConstantTag uint8

const (
	ConstantUtf8               ConstantTag = 1
	ConstantInteger            ConstantTag = 3
	ConstantFloat              ConstantTag = 4
	ConstantLong               ConstantTag = 5
	ConstantDouble             ConstantTag = 6
	ConstantClass              ConstantTag = 7
	ConstantString             ConstantTag = 8
	ConstantFieldref           ConstantTag = 9
	ConstantMethodref          ConstantTag = 10
	ConstantInterfaceMethodref ConstantTag = 11
	ConstantNameAndType        ConstantTag = 12
	ConstantMethodHandle       ConstantTag = 15
	ConstantMethodType         ConstantTag = 16
	ConstantDynamic            ConstantTag = 17
	ConstantInvokeDynamic      ConstantTag = 18
)

// element_value tags inside annotation attributes.
const (
	elemByte       = 'B'
	elemChar       = 'C'
	elemDouble     = 'D'
	elemFloat      = 'F'
	elemInt        = 'I'
	elemLong       = 'J'
	elemShort      = 'S'
	elemBoolean    = 'Z'
	elemString     = 's'
	elemEnum       = 'e'
	elemClass      = 'c'
	elemAnnotation = '@'
	elemArray      = '['
)
