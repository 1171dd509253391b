package core

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/cigate/schema"
)

// lcov record prefixes that carry line totals.
const (
	lcovLinesFoundPrefix = "LF:"
	lcovLinesHitPrefix   = "LH:"
)

// maxLcovLineSize bounds a single lcov line; BRDA and FN records can be long.
const maxLcovLineSize = 1024 * 1024

// ParseLcovFile opens and parses an lcov tracefile.
func ParseLcovFile(path string) (schema.CoverageRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.CoverageRecord{}, err
	}
	defer func() { _ = f.Close() }()
	return ParseLcov(f)
}

// ParseLcov sums the LF and LH records of an lcov tracefile. Other records are ignored.
// A malformed or negative value fails the whole file.
func ParseLcov(r io.Reader) (schema.CoverageRecord, error) {
	var record schema.CoverageRecord

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLcovLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")

		var target *int
		switch {
		case strings.HasPrefix(line, lcovLinesFoundPrefix):
			target = &record.LinesFound
		case strings.HasPrefix(line, lcovLinesHitPrefix):
			target = &record.LinesHit
		default:
			continue
		}

		value, err := parseLcovValue(line[3:])
		if err != nil {
			return schema.CoverageRecord{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		*target += value
	}
	if err := scanner.Err(); err != nil {
		return schema.CoverageRecord{}, err
	}
	return record, nil
}

func parseLcovValue(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}
