package scan

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/annodetect/classfile"
)

// classBytes builds a minimal class file for internalName whose type carries
// the given raw annotation names.
func classBytes(internalName string, annotations ...string) []byte {
	var w bytes.Buffer
	u2 := func(v uint16) { binary.Write(&w, binary.BigEndian, v) }
	u4 := func(v uint32) { binary.Write(&w, binary.BigEndian, v) }
	utf8 := func(s string) {
		w.WriteByte(1)
		u2(uint16(len(s)))
		w.WriteString(s)
	}

	u4(classfile.Magic)
	u2(0)
	u2(52)
	u2(uint16(4 + len(annotations))) // constant_pool_count
	utf8(internalName)               // #1
	w.WriteByte(7)                   // #2: Class -> #1
	u2(1)
	utf8("RuntimeVisibleAnnotations") // #3
	for _, a := range annotations {
		utf8(a) // #4...
	}
	u2(0x0021) // access_flags
	u2(2)      // this_class
	u2(0)      // super_class
	u2(0)      // interfaces_count
	u2(0)      // fields_count
	u2(0)      // methods_count
	if len(annotations) == 0 {
		u2(0)
		return w.Bytes()
	}
	u2(1) // attributes_count
	u2(3) // attribute_name_index
	u4(uint32(2 + 4*len(annotations)))
	u2(uint16(len(annotations)))
	for i := range annotations {
		u2(uint16(4 + i)) // type_index
		u2(0)             // num_element_value_pairs
	}
	return w.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

type jarEntry struct {
	name string
	data []byte
}

func writeJar(t *testing.T, path string, entries []jarEntry) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		f, err := zw.Create(e.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write(e.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, buf.Bytes())
}

// drain collects every payload name from an enumerator.
func drain(t *testing.T, enum Enumerator, filter Filter) []string {
	t.Helper()
	var names []string
	for {
		p, err := enum.Next(filter)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if p == nil {
			return names
		}
		names = append(names, p.Name)
		if p.FileBacked {
			p.Close()
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
