package classfile

import "fmt"

// ConstantPool is the per-class table of literals and references. JVM
// constant pools are 1-based, so slot 0 is never populated; a Long or
// Double entry occupies its own slot and leaves the following one empty.
//
// The decoder only ever needs Utf8 values and the Class/String entries that
// point at them. Everything else is retained as an opaque placeholder so
// that indices stay aligned.
type ConstantPool []PoolEntry

type PoolEntry interface {
	Tag() ConstantTag
}

// Utf8Entry holds a decoded modified-UTF-8 string.
type Utf8Entry struct {
	Value string
}

func (e *Utf8Entry) Tag() ConstantTag { return ConstantUtf8 }

// RefEntry covers Class and String entries: a single index pointing at the
// Utf8 entry holding the name. The referenced index may be higher than the
// referencing one, so resolution happens after the whole pool is built.
type RefEntry struct {
	EntryTag ConstantTag
	Index    uint16
}

func (e *RefEntry) Tag() ConstantTag { return e.EntryTag }

// OpaqueEntry marks a pool slot whose contents the decoder skipped.
type OpaqueEntry struct {
	EntryTag ConstantTag
}

func (e *OpaqueEntry) Tag() ConstantTag { return e.EntryTag }

func (cp ConstantPool) at(index uint16) (PoolEntry, error) {
	if index == 0 || int(index) >= len(cp) || cp[index] == nil {
		return nil, fmt.Errorf("%w: unusable entry at index %d", ErrMalformedConstantPool, index)
	}
	return cp[index], nil
}

// Utf8 resolves the entry at index to its string value, following a single
// Class or String indirection if needed.
func (cp ConstantPool) Utf8(index uint16) (string, error) {
	entry, err := cp.at(index)
	if err != nil {
		return "", err
	}
	if ref, ok := entry.(*RefEntry); ok {
		entry, err = cp.at(ref.Index)
		if err != nil {
			return "", err
		}
	}
	utf8, ok := entry.(*Utf8Entry)
	if !ok {
		return "", fmt.Errorf("%w: entry %d does not resolve to a Utf8 entry (tag %d)",
			ErrMalformedConstantPool, index, entry.Tag())
	}
	return utf8.Value, nil
}

// readConstantPool builds the pool table from the cursor. Long and Double
// entries consume two consecutive indices; the second slot stays nil.
func readConstantPool(buf *Buffer) (ConstantPool, error) {
	count := int(buf.ReadU2())
	if err := buf.Err(); err != nil {
		return nil, err
	}
	pool := make(ConstantPool, count)
	for i := 1; i < count; i++ {
		tag := ConstantTag(buf.ReadU1())
		if err := buf.Err(); err != nil {
			return nil, err
		}
		switch tag {
		case ConstantUtf8:
			pool[i] = &Utf8Entry{Value: buf.ReadUTF()}
		case ConstantClass, ConstantString:
			pool[i] = &RefEntry{EntryTag: tag, Index: buf.ReadU2()}
		case ConstantMethodType:
			buf.Skip(2)
			pool[i] = &OpaqueEntry{EntryTag: tag}
		case ConstantMethodHandle:
			buf.Skip(3)
			pool[i] = &OpaqueEntry{EntryTag: tag}
		case ConstantInteger, ConstantFloat, ConstantFieldref, ConstantMethodref,
			ConstantInterfaceMethodref, ConstantNameAndType, ConstantDynamic,
			ConstantInvokeDynamic:
			buf.Skip(4)
			pool[i] = &OpaqueEntry{EntryTag: tag}
		case ConstantLong, ConstantDouble:
			buf.Skip(8)
			pool[i] = &OpaqueEntry{EntryTag: tag}
			i++
		default:
			return nil, fmt.Errorf("%w: unknown tag %d at index %d",
				ErrMalformedConstantPool, tag, i)
		}
		if err := buf.Err(); err != nil {
			return nil, err
		}
	}
	return pool, nil
}
