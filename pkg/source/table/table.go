package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/graphloom/pkg/source"
)

// sniffSize is how much of the input is inspected to guess the delimiter.
const sniffSize = 4096

// Candidates are the delimiters [SniffDelimiter] chooses from, in tie-break
// order.
var Candidates = []rune{',', ';', '\t', '|'}

// Table is delimited text split into a header and data rows. Every row has
// exactly len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Read parses delimited text. When delim is zero the delimiter is sniffed
// from the first 4 KiB. Ragged rows are padded with empty cells or truncated
// to the header width. A leading UTF-8 byte order mark is ignored.
func Read(r io.Reader, delim rune) (Table, error) {
	br := bufio.NewReaderSize(r, sniffSize)
	if delim == 0 {
		sample, err := br.Peek(sniffSize)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return Table{}, fmt.Errorf("read sample: %w", err)
		}
		delim = SniffDelimiter(sample)
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = delim != '\t'

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, source.Malformed("parse table: %v", err)
	}
	return FromRecords(records)
}

// FromRecords builds a Table whose first record is the header.
func FromRecords(records [][]string) (Table, error) {
	if len(records) == 0 {
		return Table{}, source.Malformed("table has no header row")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.TrimSpace(h)
	}
	if len(header) == 0 || (len(header) == 1 && header[0] == "") {
		return Table{}, source.Malformed("table header is empty")
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, fit(rec, len(header)))
	}
	return Table{Header: header, Rows: rows}, nil
}

// FromMaps builds a Table from rows keyed by column name. Go maps have no
// order, so the header is the sorted union of all keys.
func FromMaps(rows []map[string]string) (Table, error) {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	header := slices.Sorted(maps.Keys(seen))
	if len(header) == 0 {
		return Table{}, source.Malformed("table has no columns")
	}

	out := Table{Header: header, Rows: make([][]string, len(rows))}
	for i, row := range rows {
		cells := make([]string, len(header))
		for j, h := range header {
			cells[j] = row[h]
		}
		out.Rows[i] = cells
	}
	return out, nil
}

// Column returns the index of the first header for which match returns true,
// or -1.
func (t Table) Column(match func(string) bool) int {
	for i, h := range t.Header {
		if match(h) {
			return i
		}
	}
	return -1
}

func fit(rec []string, width int) []string {
	if len(rec) == width {
		return rec
	}
	out := make([]string, width)
	copy(out, rec)
	return out
}

// SniffDelimiter guesses the delimiter of a delimited-text sample. A
// candidate qualifies when it occurs the same non-zero number of times on
// every non-blank line (quoted sections are skipped). The qualifying
// candidate with the highest count wins; ties go to the earlier entry in
// [Candidates]. Without a qualifying candidate the result is ','.
func SniffDelimiter(sample []byte) rune {
	lines := sampleLines(sample)
	if len(lines) == 0 {
		return ','
	}

	best, bestCount := ',', 0
	for _, c := range Candidates {
		n := count(lines[0], c)
		if n == 0 || n <= bestCount {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			if count(line, c) != n {
				consistent = false
				break
			}
		}
		if consistent {
			best, bestCount = c, n
		}
	}
	return best
}

// sampleLines splits sample into non-blank lines, dropping a trailing line
// that may have been cut off by the sample size.
func sampleLines(sample []byte) []string {
	complete := len(sample) < sniffSize
	raw := strings.Split(string(bytes.TrimPrefix(sample, []byte("\ufeff"))), "\n")
	if !complete && len(raw) > 1 {
		raw = raw[:len(raw)-1]
	}
	var lines []string
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func count(line string, delim rune) int {
	n, quoted := 0, false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == delim && !quoted:
			n++
		}
	}
	return n
}
