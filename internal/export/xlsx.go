// Package export writes aggregation tables to spreadsheet workbooks.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/acidentes-dashboard/internal/aggregate"
)

// ContentType is the MIME type of an XLSX workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	"[", "_", "]", "_", ":", "_", "*", "_", "?", "_", "/", "_", "\\", "_",
)

// SheetName turns s into a valid worksheet name.
func SheetName(s string) string {
	s = strings.TrimSpace(sheetNameReplacer.Replace(s))
	if s == "" {
		return "dados"
	}
	if r := []rune(s); len(r) > maxSheetName {
		s = string(r[:maxSheetName])
	}
	return s
}

// WriteXLSX writes table as a single-sheet workbook: a header row with the
// column names followed by one row per table row.
func WriteXLSX(w io.Writer, sheetName string, table aggregate.Table) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName(sheetName))
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range table.Columns {
		header.AddCell().SetString(col)
	}
	for _, values := range table.Rows {
		row := sheet.AddRow()
		for _, v := range values {
			setCell(row.AddCell(), v)
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}

func setCell(c *xlsx.Cell, v any) {
	switch x := v.(type) {
	case nil:
		c.SetString("")
	case string:
		c.SetString(x)
	case int:
		c.SetInt(x)
	case int64:
		c.SetInt64(x)
	case float64:
		c.SetFloat(x)
	case bool:
		c.SetBool(x)
	default:
		c.SetString(fmt.Sprint(x))
	}
}
