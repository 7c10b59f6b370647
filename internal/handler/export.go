package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/store"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler serves transaction downloads as CSV or XLSX.
type ExportHandler struct {
	Store *store.Store
}

func NewExportHandler(st *store.Store) *ExportHandler {
	return &ExportHandler{Store: st}
}

var exportHeaders = []string{"Date", "Description", "Amount", "Category", "Type"}

// ExportCSV streams all of the user's transactions as a CSV attachment.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	txs, err := h.Store.AllTransactions(user.ID)
	if err != nil {
		log.Printf("export csv: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error exporting transactions")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, t := range txs {
		writer.Write([]string{
			t.TransactionDate,
			t.Description,
			util.FormatCents(t.AmountCents),
			t.Category.Name,
			t.Category.Type,
		})
	}
}

// ExportXLSX writes all of the user's transactions into a spreadsheet.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	txs, err := h.Store.AllTransactions(user.ID)
	if err != nil {
		log.Printf("export xlsx: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error exporting transactions")
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		log.Printf("export xlsx: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error exporting transactions")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx, t := range txs {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.TransactionDate)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), t.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), util.FormatCents(t.AmountCents))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.Category.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.Category.Type)
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 40)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 18)
	f.SetColWidth(sheetName, "E", "E", 10)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		log.Printf("export xlsx: write: %v", err)
	}
}
