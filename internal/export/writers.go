package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cryptadb/crypta/internal/directory"

	"github.com/xuri/excelize/v2"
)

// writeCSV streams the grid as comma-separated rows, header first.
func writeCSV(w io.Writer, grid *directory.Grid) (int, error) {
	csvWriter := csv.NewWriter(w)

	headers := make([]string, len(grid.Columns))
	for i, col := range grid.Columns {
		headers[i] = col.Title
	}
	if err := csvWriter.Write(headers); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(grid.Columns))
	for _, record := range grid.Records {
		for i, col := range grid.Columns {
			row[i] = formatCell(record[col.Field])
		}
		if err := csvWriter.Write(row); err != nil {
			return 0, fmt.Errorf("write row: %w", err)
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return 0, fmt.Errorf("flush rows: %w", err)
	}
	return len(grid.Records), nil
}

// writeXLSX renders the grid as a single-sheet workbook.
func writeXLSX(w io.Writer, grid *directory.Grid) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	header := make([]any, len(grid.Columns))
	for i, col := range grid.Columns {
		header[i] = col.Title
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	row := make([]any, len(grid.Columns))
	for n, record := range grid.Records {
		for i, col := range grid.Columns {
			row[i] = cellValue(record[col.Field])
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return 0, fmt.Errorf("address row %d: %w", n+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return 0, fmt.Errorf("write row %d: %w", n+2, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	return len(grid.Records), nil
}

// cellValue keeps scalars typed for spreadsheet cells and stringifies the
// rest.
func cellValue(v any) any {
	switch v.(type) {
	case nil:
		return ""
	case string, bool, int, int64, float64:
		return v
	default:
		return formatCell(v)
	}
}

func formatCell(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case time.Time:
		return v.Format("2006-01-02")
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format("2006-01-02")
	case json.Number:
		return v.String()
	case float32, float64, int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("%v", v)
	case []byte:
		return string(v)
	case map[string]any, []any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	default:
		return fmt.Sprintf("%v", v)
	}
}
