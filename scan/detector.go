package scan

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/annodetect/classfile"
)

var log = commonlog.GetLogger("annodetect.scan")

// Detector finds annotation usages in compiled classes without loading
// them. Configure it with the fluent methods, then run the scan with Report
// or Collect. One decode buffer is reused for the whole scan, so a Detector
// must not be shared by scans running concurrently.
type Detector struct {
	enum        Enumerator
	annotations []string
	kinds       classfile.KindSet
	filter      Filter
	prefixes    []string
	trace       bool
	buf         *classfile.Buffer
}

// Files starts a scan over the given jar files and directories.
func Files(roots ...string) *Detector {
	if len(roots) == 0 {
		log.Warning("no files or directories to scan")
	}
	return newDetector(NewClassFiles(roots...))
}

// Resources starts a scan over an explicit ordered list of resource
// locators. Locators that do not resolve to local files are opened through
// the given Opener.
func Resources(locators []*url.URL, open Opener) *Detector {
	return newDetector(NewResourceList(locators, open))
}

// ClassPath starts a scan over the entries of the CLASSPATH environment
// variable, optionally restricted to the given packages (dotted or native
// form). With an empty CLASSPATH the current directory is scanned.
func ClassPath(packages ...string) *Detector {
	entries := filepath.SplitList(os.Getenv("CLASSPATH"))
	if len(entries) == 0 {
		entries = []string{"."}
	}
	return Files(entries...).InPackages(packages...)
}

// FromEnumerator starts a scan over a caller-supplied payload source.
func FromEnumerator(enum Enumerator) *Detector {
	return newDetector(enum)
}

func newDetector(enum Enumerator) *Detector {
	return &Detector{
		enum:  enum,
		kinds: classfile.NewKindSet(classfile.KindType),
		buf:   classfile.NewBuffer(),
	}
}

// ForAnnotations sets the annotation type names to report. Names may be
// given in dotted source form ("com.example.Module") or raw internal form
// ("Lcom/example/Module;").
func (d *Detector) ForAnnotations(names ...string) *Detector {
	d.annotations = make([]string, len(names))
	for i, n := range names {
		d.annotations[i] = rawAnnotationName(n)
	}
	return d
}

// On replaces the set of element kinds to inspect. The default is TYPE
// only.
func (d *Detector) On(kinds ...classfile.ElementKind) *Detector {
	d.kinds = classfile.NewKindSet(kinds...)
	return d
}

// WithFilter installs a name filter consulted for every discovered class
// file before it is read.
func (d *Detector) WithFilter(f Filter) *Detector {
	d.filter = f
	return d
}

// InPackages restricts the scan to the given packages. Package names may be
// dotted or native form; they are normalized to native prefixes ending in
// "/".
func (d *Detector) InPackages(packages ...string) *Detector {
	d.prefixes = make([]string, len(packages))
	for i, p := range packages {
		d.prefixes[i] = normalizePackage(p)
	}
	return d
}

// Trace enables per-payload trace logging. The flag never changes what is
// decoded, only what is logged.
func (d *Detector) Trace(enabled bool) *Detector {
	d.trace = enabled
	return d
}

// ReporterFunc receives each occurrence in enumeration order. Returning an
// error aborts the scan; open archive handles are still released.
type ReporterFunc func(classfile.Occurrence) error

// Report runs the scan, forwarding every matching occurrence to report.
// Occurrences arrive in the exact order payloads are enumerated and, within
// one class file, fields before methods before type-level annotations.
func (d *Detector) Report(report ReporterFunc) error {
	defer d.enum.Close()

	if len(d.annotations) == 0 {
		return errors.New("no annotations requested")
	}
	if len(d.prefixes) > 0 {
		if pr, ok := d.enum.(interface{ restrictPackages([]string) }); ok {
			pr.restrictPackages(d.prefixes)
		}
	}

	decoder := classfile.NewDecoder(d.annotations, d.kinds)
	for {
		payload, err := d.enum.Next(d.filter)
		if err != nil {
			return err
		}
		if payload == nil {
			return nil
		}
		if err := d.scanPayload(decoder, payload, report); err != nil {
			return err
		}
	}
}

func (d *Detector) scanPayload(decoder *classfile.Decoder, p *Payload, report ReporterFunc) error {
	defer func() {
		if p.FileBacked {
			p.Close()
		}
	}()

	if err := d.buf.LoadFrom(p.Reader); err != nil {
		return fmt.Errorf("read %s: %w", p.Name, err)
	}
	err := decoder.Decode(d.buf, classfile.ReporterFunc(report))
	if errors.Is(err, classfile.ErrNotClassFile) {
		// Some resources carry the ".class" suffix without being class
		// files; they are skipped, not failed.
		if d.trace {
			log.Debugf("skipping %s: no class file magic", p.Name)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", p.Name, err)
	}
	if d.trace {
		log.Debugf("scanned %s", p.Name)
	}
	return nil
}

// Collect runs the scan and gathers the transformed occurrences in order.
func Collect[T any](d *Detector, transform func(classfile.Occurrence) T) ([]T, error) {
	var out []T
	err := d.Report(func(o classfile.Occurrence) error {
		out = append(out, transform(o))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// rawAnnotationName converts "com.example.Module" to the raw class file
// form "Lcom/example/Module;". Names already in raw form pass through.
func rawAnnotationName(name string) string {
	if strings.HasPrefix(name, "L") && strings.HasSuffix(name, ";") {
		return name
	}
	return "L" + classfile.SourceToInternalName(name) + ";"
}

func normalizePackage(pkg string) string {
	p := classfile.SourceToInternalName(pkg)
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}
