// Package export produces the admin order export and can publish it to
// object storage behind a short-lived link.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"groundnut_back_end/internal/models"
)

var Header = []string{"Order ID", "Date", "Customer", "Email", "Phone", "Total", "Status"}

// WriteCSV writes one header row and one row per order, in the given order.
func WriteCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, o := range orders {
		row := []string{
			o.OrderID,
			o.CreatedAt.UTC().Format(time.RFC3339),
			o.CustomerName,
			o.Email,
			o.Phone,
			o.TotalAmount.StringFixed(2),
			string(o.Status),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV renders the export in memory.
func CSV(orders []models.Order) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, orders); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName is orders_<YYYY-MM-DD>.csv for the day of at.
func FileName(at time.Time) string {
	return "orders_" + at.UTC().Format("2006-01-02") + ".csv"
}
