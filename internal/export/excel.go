package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/eberechi/shopsync-backend/internal/app/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ContentType is the MIME type for generated workbooks.
func ContentType() string {
	return xlsxContentType
}

// InventoryWorkbook renders the catalog as a spreadsheet for printing or
// sharing with suppliers.
func InventoryWorkbook(businessName string, items []model.InventoryItem) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Inventory"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Product", "Category", "Stock", "Purchase Price", "Sale Price", "Batch", "Expiry Date", "Barcode", "Active"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, item := range items {
		expiry := ""
		if item.ExpiryDate != nil {
			expiry = item.ExpiryDate.Format("2006-01-02")
		}
		barcode := ""
		if item.Barcode != nil {
			barcode = *item.Barcode
		}
		values := []interface{}{
			item.ProductName,
			item.Category,
			item.Stock,
			item.PurchasePrice,
			item.SalePrice,
			item.BatchNumber,
			expiry,
			barcode,
			item.Active,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render inventory workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SalesWorkbook renders sales with one row per line item, plus a summary row
// of the period total.
func SalesWorkbook(businessName string, records []model.SalesRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sales"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Receipt", "Sold At", "Sales Person", "Payment", "Product", "Quantity", "Unit Price", "Line Total", "Synced"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	row := 2
	var grandTotal float64
	for _, record := range records {
		grandTotal += record.GrandTotal
		for _, item := range record.Items {
			values := []interface{}{
				record.ReceiptNumber,
				record.SoldAt.Format(time.RFC3339),
				record.SalesPerson,
				record.PaymentMethod,
				item.ProductName,
				item.Quantity,
				item.UnitPrice,
				item.LineTotal,
				record.Synced,
			}
			for col, value := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheet, cell, value)
			}
			row++
		}
	}

	totalCell, _ := excelize.CoordinatesToCellName(1, row+1)
	f.SetCellValue(sheet, totalCell, fmt.Sprintf("Total for %s: %.2f", businessName, grandTotal))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render sales workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename builds a dated export filename like inventory_20260901.xlsx.
func Filename(kind string, at time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", kind, at.Format("20060102"))
}
