package core

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/cigate/schema"
	"golang.org/x/text/encoding/htmlindex"
)

// utf8BOM is the byte order mark some Windows and .NET loggers put before the prolog.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// JUnit element names.
const (
	junitSuiteElement      = "testsuite"
	junitCollectionElement = "testsuites"
)

// ParseJUnitFile opens and parses a JUnit XML report.
func ParseJUnitFile(path string) (schema.TestSuiteRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.TestSuiteRecord{}, err
	}
	defer func() { _ = f.Close() }()
	return ParseJUnit(f)
}

// ParseJUnit reads a JUnit XML document and sums the counts it reports.
// A testsuite root is counted directly; for a testsuites root every direct
// testsuite child is counted. Any other root element counts as zero.
// A leading UTF-8 byte order mark is skipped and non-UTF-8 encodings declared
// in the prolog are decoded. Malformed XML, or content after the root element, is an error.
func ParseJUnit(r io.Reader) (schema.TestSuiteRecord, error) {
	var record schema.TestSuiteRecord

	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	dec := xml.NewDecoder(br)
	dec.CharsetReader = charsetReader

	root, err := nextStartElement(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return record, errors.New("no root element found")
		}
		return record, err
	}

	switch root.Name.Local {
	case junitSuiteElement:
		record = suiteCounts(root)
		if err := dec.Skip(); err != nil {
			return schema.TestSuiteRecord{}, err
		}
	case junitCollectionElement:
		record, err = collectSuites(dec)
		if err != nil {
			return schema.TestSuiteRecord{}, err
		}
	default:
		if err := dec.Skip(); err != nil {
			return schema.TestSuiteRecord{}, err
		}
	}

	if err := expectEndOfDocument(dec); err != nil {
		return schema.TestSuiteRecord{}, err
	}
	return record, nil
}

// charsetReader converts a document in the declared encoding to UTF-8.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

// nextStartElement skips the prolog (declarations, comments, whitespace) and
// returns the root element.
func nextStartElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.CharData:
			if len(strings.TrimSpace(string(t))) > 0 {
				return xml.StartElement{}, errors.New("text content before root element")
			}
		}
	}
}

// collectSuites sums the direct testsuite children of a testsuites element.
// Nested elements below those children are skipped.
func collectSuites(dec *xml.Decoder) (schema.TestSuiteRecord, error) {
	var record schema.TestSuiteRecord
	for {
		tok, err := dec.Token()
		if err != nil {
			return record, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == junitSuiteElement {
				record = record.Add(suiteCounts(t))
			}
			if err := dec.Skip(); err != nil {
				return record, err
			}
		case xml.EndElement:
			return record, nil
		}
	}
}

// expectEndOfDocument fails when anything but whitespace, comments or
// processing instructions follows the root element.
func expectEndOfDocument(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("unexpected element <%s> after root element", t.Name.Local)
		case xml.CharData:
			if len(strings.TrimSpace(string(t))) > 0 {
				return errors.New("unexpected text after root element")
			}
		}
	}
}

// suiteCounts reads the four count attributes of a testsuite element.
func suiteCounts(el xml.StartElement) schema.TestSuiteRecord {
	var record schema.TestSuiteRecord
	for _, attr := range el.Attr {
		if attr.Name.Space != "" {
			continue
		}
		switch attr.Name.Local {
		case "tests":
			record.Tests = parseCount(attr.Value)
		case "failures":
			record.Failures = parseCount(attr.Value)
		case "errors":
			record.Errors = parseCount(attr.Value)
		case "skipped":
			record.Skipped = parseCount(attr.Value)
		}
	}
	return record
}

// parseCount converts a count attribute, treating anything non-numeric or negative as zero.
func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
