package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/HerbHall/fullstock/pkg/models"
)

// Sheet names used by workbook import and export.
const (
	InventorySheet = "Inventory"
	SuppliersSheet = "Suppliers"
)

var inventoryHeader = []string{
	"ID", "Name", "Category", "Current Stock", "Min Required",
	"Unit", "Status", "Next Delivery", "Suggested Action",
}

var supplierHeader = []string{
	"ID", "Name", "Category", "Items", "Stock Availability", "Delivery Time",
	"Price Index", "Match Score", "Sponsored", "Description", "Logo URL",
}

// itemSeparator joins supplier item names inside a single cell.
const itemSeparator = ";"

// LoadWorkbook reads inventory and suppliers from an .xlsx file. Chart
// datasets are not stored in workbooks; the embedded defaults are used.
func LoadWorkbook(path string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open workbook %q: %w", path, err)
	}
	defer f.Close()
	return parseWorkbook(f)
}

// ReadWorkbook is LoadWorkbook for an in-memory or streamed workbook.
func ReadWorkbook(r io.Reader) (*Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: open workbook: %w", err)
	}
	defer f.Close()
	return parseWorkbook(f)
}

// WriteWorkbook exports the catalog's inventory and suppliers as an .xlsx
// workbook with one sheet each.
func WriteWorkbook(w io.Writer, c *Catalog) error {
	inventory, err := c.Inventory()
	if err != nil {
		return err
	}
	suppliers, err := c.Suppliers()
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", InventorySheet); err != nil {
		return fmt.Errorf("catalog: rename default sheet: %w", err)
	}
	if _, err := f.NewSheet(SuppliersSheet); err != nil {
		return fmt.Errorf("catalog: create sheet: %w", err)
	}

	if err := writeRow(f, InventorySheet, 1, toAny(inventoryHeader)); err != nil {
		return err
	}
	for i, it := range inventory {
		row := []any{
			it.ID, it.Name, string(it.Category), it.CurrentStock, it.MinRequired,
			it.Unit, string(it.Status), it.NextDelivery, it.SuggestedAction,
		}
		if err := writeRow(f, InventorySheet, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(f, SuppliersSheet, 1, toAny(supplierHeader)); err != nil {
		return err
	}
	for i, s := range suppliers {
		row := []any{
			s.ID, s.Name, string(s.Category), strings.Join(s.Items, itemSeparator),
			string(s.StockAvailability), s.DeliveryTime, string(s.PriceIndex),
			s.MatchScore, strconv.FormatBool(s.IsSponsored), s.Description, s.LogoURL,
		}
		if err := writeRow(f, SuppliersSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("catalog: write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("catalog: write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func parseWorkbook(f *excelize.File) (*Catalog, error) {
	invRows, err := f.GetRows(InventorySheet)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s sheet: %w", InventorySheet, err)
	}
	inventory, err := parseInventoryRows(invRows)
	if err != nil {
		return nil, err
	}
	if len(inventory) == 0 {
		return nil, ErrEmptyCatalog
	}

	supRows, err := f.GetRows(SuppliersSheet)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s sheet: %w", SuppliersSheet, err)
	}
	suppliers, err := parseSupplierRows(supRows)
	if err != nil {
		return nil, err
	}

	return NewStatic(inventory, suppliers, Datasets{}), nil
}

// rowReader resolves cells by header name so column order does not matter.
type rowReader struct {
	sheet   string
	columns map[string]int
}

func newRowReader(sheet string, header, required []string) (*rowReader, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[normalizeHeader(h)] = i
	}
	for _, r := range required {
		if _, ok := cols[normalizeHeader(r)]; !ok {
			return nil, fmt.Errorf("catalog: %s sheet: missing column %q", sheet, r)
		}
	}
	return &rowReader{sheet: sheet, columns: cols}, nil
}

func (r *rowReader) cell(row []string, name string) string {
	idx, ok := r.columns[normalizeHeader(name)]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (r *rowReader) int(row []string, line int, name string) (int, error) {
	v := r.cell(row, name)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("catalog: %s row %d: %s %q is not an integer", r.sheet, line, name, v)
	}
	return n, nil
}

func (r *rowReader) float(row []string, line int, name string) (float64, error) {
	v := r.cell(row, name)
	n, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("catalog: %s row %d: %s %q is not a number", r.sheet, line, name, v)
	}
	return n, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "")
	return strings.ReplaceAll(h, "_", "")
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseInventoryRows(rows [][]string) ([]models.InventoryItem, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	rr, err := newRowReader(InventorySheet, rows[0], inventoryHeader)
	if err != nil {
		return nil, err
	}

	items := make([]models.InventoryItem, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}
		id, err := rr.int(row, line, "ID")
		if err != nil {
			return nil, err
		}
		current, err := rr.float(row, line, "Current Stock")
		if err != nil {
			return nil, err
		}
		minimum, err := rr.float(row, line, "Min Required")
		if err != nil {
			return nil, err
		}
		status, ok := models.ParseStatus(rr.cell(row, "Status"))
		if !ok {
			return nil, fmt.Errorf("catalog: %s row %d: unknown status %q", InventorySheet, line, rr.cell(row, "Status"))
		}
		items = append(items, models.InventoryItem{
			ID:              id,
			Name:            rr.cell(row, "Name"),
			Category:        models.Category(rr.cell(row, "Category")),
			CurrentStock:    current,
			MinRequired:     minimum,
			Unit:            rr.cell(row, "Unit"),
			Status:          status,
			NextDelivery:    rr.cell(row, "Next Delivery"),
			SuggestedAction: rr.cell(row, "Suggested Action"),
		})
	}
	return items, nil
}

func parseSupplierRows(rows [][]string) ([]models.Supplier, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	rr, err := newRowReader(SuppliersSheet, rows[0], []string{"ID", "Name", "Category", "Items", "Match Score", "Sponsored"})
	if err != nil {
		return nil, err
	}

	suppliers := make([]models.Supplier, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}
		id, err := rr.int(row, line, "ID")
		if err != nil {
			return nil, err
		}
		score, err := rr.int(row, line, "Match Score")
		if err != nil {
			return nil, err
		}
		if score < 0 || score > 100 {
			return nil, fmt.Errorf("catalog: %s row %d: match score %d out of range", SuppliersSheet, line, score)
		}

		var items []string
		for _, it := range strings.Split(rr.cell(row, "Items"), itemSeparator) {
			if it = strings.TrimSpace(it); it != "" {
				items = append(items, it)
			}
		}

		suppliers = append(suppliers, models.Supplier{
			ID:                id,
			Name:              rr.cell(row, "Name"),
			Category:          models.Category(rr.cell(row, "Category")),
			Items:             items,
			StockAvailability: models.Availability(rr.cell(row, "Stock Availability")),
			DeliveryTime:      rr.cell(row, "Delivery Time"),
			PriceIndex:        models.PriceIndex(rr.cell(row, "Price Index")),
			MatchScore:        score,
			IsSponsored:       parseYes(rr.cell(row, "Sponsored")),
			Description:       rr.cell(row, "Description"),
			LogoURL:           rr.cell(row, "Logo URL"),
		})
	}
	return suppliers, nil
}

func parseYes(v string) bool {
	switch strings.ToLower(v) {
	case "true", "yes", "y", "1", "x":
		return true
	}
	return false
}
