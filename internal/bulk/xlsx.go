// Package bulk imports and exports the product catalogue as spreadsheets.
package bulk

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/internal/textutil"
	"github.com/xuri/excelize/v2"
)

// Spreadsheet column headers.
const (
	ColID          = "ID"
	ColCategory    = "Kategori"
	ColSubcategory = "Alt Kategori"
	ColName        = "Ürün Adı"
	ColDescription = "Açıklama"
	ColWarning     = "Uyarı"
	ColPrice       = "Fiyat"
	ColPriceSmall  = "Küçük Fiyat"
	ColPriceMedium = "Orta Fiyat"
	ColPriceLarge  = "Büyük Fiyat"
	ColSortOrder   = "Sıra"
	ColStatus      = "Durum"
	ColImage       = "Resim"
	ColBranches    = "Şubeler"
)

// Columns is the export column order.
var Columns = []string{
	ColID, ColCategory, ColSubcategory, ColName, ColDescription, ColWarning,
	ColPrice, ColPriceSmall, ColPriceMedium, ColPriceLarge, ColSortOrder,
	ColStatus, ColImage, ColBranches,
}

var numericColumns = map[string]bool{
	ColPrice: true, ColPriceSmall: true, ColPriceMedium: true, ColPriceLarge: true, ColSortOrder: true,
}

// SheetName is the name of the exported worksheet.
const SheetName = "Ürünler"

// Row is one product line of a spreadsheet. Cells are kept as text; the
// importer parses them.
type Row struct {
	// Line is the 1-based spreadsheet line, 0 for rows not read from a file.
	Line        int
	ID          string
	Category    string
	Subcategory string
	Name        string
	Description string
	Warning     string
	Price       string
	PriceSmall  string
	PriceMedium string
	PriceLarge  string
	SortOrder   string
	Status      string
	Image       string
	// Branches is nil when the sheet has no branch column, which keeps the
	// branch links of updated products untouched.
	Branches *string
}

func (r *Row) cell(column string) string {
	switch column {
	case ColID:
		return r.ID
	case ColCategory:
		return r.Category
	case ColSubcategory:
		return r.Subcategory
	case ColName:
		return r.Name
	case ColDescription:
		return r.Description
	case ColWarning:
		return r.Warning
	case ColPrice:
		return r.Price
	case ColPriceSmall:
		return r.PriceSmall
	case ColPriceMedium:
		return r.PriceMedium
	case ColPriceLarge:
		return r.PriceLarge
	case ColSortOrder:
		return r.SortOrder
	case ColStatus:
		return r.Status
	case ColImage:
		return r.Image
	case ColBranches:
		if r.Branches == nil {
			return ""
		}
		return *r.Branches
	}
	return ""
}

func (r *Row) set(column, value string) {
	switch column {
	case ColID:
		r.ID = value
	case ColCategory:
		r.Category = value
	case ColSubcategory:
		r.Subcategory = value
	case ColName:
		r.Name = value
	case ColDescription:
		r.Description = value
	case ColWarning:
		r.Warning = value
	case ColPrice:
		r.Price = value
	case ColPriceSmall:
		r.PriceSmall = value
	case ColPriceMedium:
		r.PriceMedium = value
	case ColPriceLarge:
		r.PriceLarge = value
	case ColSortOrder:
		r.SortOrder = value
	case ColStatus:
		r.Status = value
	case ColImage:
		r.Image = value
	case ColBranches:
		r.Branches = &value
	}
}

// ReadXLSX reads product rows from the first worksheet. Headers are matched
// ignoring case; unknown columns are ignored and blank lines skipped.
func ReadXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Invalid.Explain("Invalid spreadsheet file").Wrap(err)
	}
	defer f.Close()

	lines, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, errors.Invalid.Explain("Invalid spreadsheet file").Wrap(err)
	}
	if len(lines) == 0 {
		return nil, errors.Invalid.Explain("Spreadsheet is empty")
	}

	known := make(map[string]string, len(Columns))
	for _, c := range Columns {
		known[textutil.Fold(c)] = c
	}
	header := make([]string, len(lines[0]))
	found := make(map[string]bool)
	for i, h := range lines[0] {
		if c, ok := known[textutil.Fold(h)]; ok {
			header[i] = c
			found[c] = true
		}
	}
	for _, required := range []string{ColCategory, ColName} {
		if !found[required] {
			return nil, errors.Invalid.Explain("missing column %q", required)
		}
	}

	rows := make([]Row, 0, len(lines)-1)
	for i, line := range lines[1:] {
		row := Row{Line: i + 2}
		if found[ColBranches] {
			empty := ""
			row.Branches = &empty
		}
		blank := true
		for j, value := range line {
			if j >= len(header) || header[j] == "" {
				continue
			}
			value = strings.TrimSpace(value)
			if value != "" {
				blank = false
			}
			row.set(header[j], value)
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// WriteXLSX writes rows as a single sheet workbook. Price and sort order
// cells are written as numbers when they parse as such.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, column := range Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, column); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "F", 24); err != nil {
		return err
	}

	for i := range rows {
		for j, column := range Columns {
			value := rows[i].cell(column)
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			var v any = value
			if numericColumns[column] {
				if n, err := strconv.ParseFloat(value, 64); err == nil {
					v = n
				}
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}
