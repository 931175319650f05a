package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset defines tabular export content. Records are positional and must
// have exactly len(Headers) cells.
type Dataset struct {
	Title    string
	Subtitle []string
	Headers  []string
	Records  [][]string
	// Sections optionally groups consecutive records under a caption for
	// renderers that paginate (PDF). Flat renderers ignore it.
	Sections []Section
}

// Section marks Count consecutive records starting at Start.
type Section struct {
	Caption string
	Lines   []string
	Start   int
	Count   int
}

// Validate checks header presence and record widths.
func (d Dataset) Validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	for i, record := range d.Records {
		if len(record) != len(d.Headers) {
			return fmt.Errorf("record %d has %d cells, want %d", i, len(record), len(d.Headers))
		}
	}
	return nil
}

// CSVExporter renders Dataset records into delimited text.
type CSVExporter struct {
	comma rune
}

// NewCSVExporter builds a comma separated exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{comma: ','}
}

// NewDelimitedExporter builds an exporter using the given field delimiter.
func NewDelimitedExporter(comma rune) *CSVExporter {
	if comma == 0 {
		comma = ','
	}
	return &CSVExporter{comma: comma}
}

// Render produces the header line followed by one line per record.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	writer.Comma = e.comma
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	if err := writer.WriteAll(data.Records); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType reports the MIME type for the configured delimiter.
func (e *CSVExporter) ContentType() string {
	if e.comma == '\t' {
		return "text/tab-separated-values"
	}
	return "text/csv"
}
