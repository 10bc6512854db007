// Package export renders stored extraction requests as CSV or XLSX for
// offline review.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"extractd/internal/domain"
)

// BOM is the UTF-8 byte order mark, prepended for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the export header row.
var columns = []string{
	"Request ID",
	"Idempotency Key",
	"Status",
	"Doc Type",
	"Invoice Number",
	"Invoice Date",
	"Total Amount",
	"Currency",
	"Error Code",
	"Error Message",
	"Created At",
	"Updated At",
}

// WriteCSV writes requests as a CSV document with a UTF-8 BOM.
func WriteCSV(w io.Writer, reqs []domain.ExtractionRequest) error {
	if _, err := w.Write(BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := range reqs {
		if err := cw.Write(row(&reqs[i])); err != nil {
			return fmt.Errorf("writing row for %s: %w", reqs[i].ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(req *domain.ExtractionRequest) []string {
	return []string{
		req.ID,
		req.IdempotencyKey,
		string(req.Status),
		strVal(req.DocType),
		strVal(req.InvoiceNumber),
		strVal(req.InvoiceDate),
		floatVal(req.TotalAmount),
		strVal(req.Currency),
		strVal(req.ErrorCode),
		strVal(req.ErrorMessage),
		req.CreatedAt.UTC().Format(time.RFC3339),
		req.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatVal(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 2, 64)
}
