package eval

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("dataset is missing column")
	// ErrInvalidLabel is returned when a label is not numeric.
	ErrInvalidLabel = errors.New("invalid label")
)

// Example is one labeled dataset row.
type Example struct {
	Text  string
	Label bool
}

// CSVDataset reads labeled examples from CSV with a header row.
type CSVDataset struct {
	reader   *csv.Reader
	textIdx  int
	labelIdx int
}

// NewCSVDataset reads the header and locates the text and label columns.
func NewCSVDataset(r io.Reader, textColumn, labelColumn string) (*CSVDataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	textIdx, labelIdx := -1, -1

	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case textColumn:
			textIdx = i
		case labelColumn:
			labelIdx = i
		}
	}

	if textIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, textColumn)
	}

	if labelIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, labelColumn)
	}

	return &CSVDataset{
		reader:   reader,
		textIdx:  textIdx,
		labelIdx: labelIdx,
	}, nil
}

// All yields examples lazily until the input is exhausted or a row fails to parse.
func (d *CSVDataset) All() iter.Seq2[Example, error] {
	return func(yield func(Example, error) bool) {
		for {
			record, err := d.reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				yield(Example{}, fmt.Errorf("failed to read row: %w", err))
				return
			}

			line, _ := d.reader.FieldPos(0)

			if d.textIdx >= len(record) || d.labelIdx >= len(record) {
				yield(Example{}, fmt.Errorf("line %d: %w", line, ErrMissingColumn))
				return
			}

			label, err := ParseLabel(record[d.labelIdx])
			if err != nil {
				yield(Example{}, fmt.Errorf("line %d: %w", line, err))
				return
			}

			if !yield(Example{Text: record[d.textIdx], Label: label}, nil) {
				return
			}
		}
	}
}

// ParseLabel interprets a numeric label. Any finite non-zero value is a violation.
func ParseLabel(s string) (bool, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return false, fmt.Errorf("%w %q", ErrInvalidLabel, s)
	}

	return v != 0, nil
}

// Examples adapts a slice to the sequence form used by Evaluate.
func Examples(examples []Example) iter.Seq2[Example, error] {
	return func(yield func(Example, error) bool) {
		for _, example := range examples {
			if !yield(example, nil) {
				return
			}
		}
	}
}
