package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/annodetect/classfile"
	"github.com/dhamidi/annodetect/format"
	"github.com/dhamidi/annodetect/scan"
)

func newScanCmd() *cobra.Command {
	var (
		annotations  []string
		elements     []string
		packages     []string
		outputFormat string
		useClassPath bool
		trace        bool
	)

	cmd := &cobra.Command{
		Use:   "scan [roots...]",
		Short: "Scan directories and jar files for annotation usages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(annotations) == 0 {
				return fmt.Errorf("at least one --annotation is required")
			}
			if !useClassPath && len(args) == 0 {
				return fmt.Errorf("no roots given; pass directories/jars or use --classpath")
			}

			kinds, err := parseElementKinds(elements)
			if err != nil {
				return err
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			case "text":
				encoder = format.NewTextEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			var detector *scan.Detector
			if useClassPath {
				detector = scan.ClassPath(packages...)
			} else {
				detector = scan.Files(args...).InPackages(packages...)
			}

			count := 0
			err = detector.
				ForAnnotations(annotations...).
				On(kinds...).
				Trace(trace).
				Report(func(occ classfile.Occurrence) error {
					count++
					return encoder.Encode(occ)
				})
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "%d occurrences found\n", count)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&annotations, "annotation", "a", nil, "annotation class to report (repeatable)")
	cmd.Flags().StringSliceVarP(&elements, "on", "e", []string{"type"}, "element kinds to inspect (type, constructor, method, field)")
	cmd.Flags().StringSliceVarP(&packages, "package", "p", nil, "restrict the scan to these packages")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&useClassPath, "classpath", false, "scan the entries of $CLASSPATH instead of explicit roots")
	cmd.Flags().BoolVar(&trace, "trace", false, "log every scanned payload")

	return cmd
}

func parseElementKinds(names []string) ([]classfile.ElementKind, error) {
	kinds := make([]classfile.ElementKind, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(name) {
		case "type":
			kinds = append(kinds, classfile.KindType)
		case "constructor":
			kinds = append(kinds, classfile.KindConstructor)
		case "method":
			kinds = append(kinds, classfile.KindMethod)
		case "field":
			kinds = append(kinds, classfile.KindField)
		default:
			return nil, fmt.Errorf("unknown element kind: %s", name)
		}
	}
	return kinds, nil
}
