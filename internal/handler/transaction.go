package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/importer"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/models"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/pdftext"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/store"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/util"

	"github.com/gin-gonic/gin"
)

// uploads beyond this size are rejected before parsing
const maxUploadBytes = 16 << 20

// TransactionHandler serves transaction CRUD, the paginated listing, and the
// statement bulk import.
type TransactionHandler struct {
	Store       *store.Store
	Importer    *importer.Importer
	DefaultPage int
}

func NewTransactionHandler(st *store.Store, imp *importer.Importer, pageSize int) *TransactionHandler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &TransactionHandler{
		Store:       st,
		Importer:    imp,
		DefaultPage: pageSize,
	}
}

// transactionReq accepts the amount as either a JSON number or a decimal
// string; both arrive with two fraction digits.
type transactionReq struct {
	Description     string      `json:"description"`
	Amount          json.Number `json:"amount"`
	TransactionDate string      `json:"transactionDate"`
	CategoryID      uint        `json:"categoryId"`
}

// transactionResp is the stored row plus the amount rendered as a decimal
// string for display.
type transactionResp struct {
	models.Transaction
	Amount string `json:"amount"`
}

func toResp(t models.Transaction) transactionResp {
	return transactionResp{Transaction: t, Amount: util.FormatCents(t.AmountCents)}
}

// validate parses and checks the request, returning the amount in cents.
func (r *transactionReq) validate() (int64, error) {
	r.Description = strings.TrimSpace(r.Description)
	if r.Description == "" {
		return 0, errors.New("description is required")
	}
	if err := util.ValidateDate(r.TransactionDate); err != nil {
		return 0, errors.New("transactionDate must be YYYY-MM-DD")
	}
	if r.CategoryID == 0 {
		return 0, errors.New("categoryId is required")
	}
	cents, err := util.ParseCents(r.Amount.String())
	if err != nil {
		return 0, errors.New("amount must be a decimal with at most two fraction digits")
	}
	return cents, nil
}

func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	cents, err := req.validate()
	if err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	// the category must belong to the acting user
	category, err := h.Store.FindCategory(user.ID, req.CategoryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "Category not found")
			return
		}
		log.Printf("create transaction: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error creating transaction")
		return
	}

	tx := models.Transaction{
		UserID:          user.ID,
		CategoryID:      category.ID,
		Description:     req.Description,
		AmountCents:     cents,
		TransactionDate: req.TransactionDate,
	}
	if err := h.Store.CreateTransaction(&tx); err != nil {
		log.Printf("create transaction: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error creating transaction")
		return
	}
	tx.Category = *category
	c.JSON(http.StatusCreated, toResp(tx))
}

func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.DefaultPage)))
	if limit <= 0 || limit > 100 {
		limit = h.DefaultPage
	}

	filter := store.TransactionFilter{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Page:      page,
		Limit:     limit,
	}

	txs, total, err := h.Store.ListTransactions(user.ID, filter)
	if err != nil {
		log.Printf("list transactions: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error fetching transactions")
		return
	}

	items := make([]transactionResp, 0, len(txs))
	for _, t := range txs {
		items = append(items, toResp(t))
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"totalItems":   total,
		"totalPages":   totalPages,
		"currentPage":  page,
		"transactions": items,
	})
}

func (h *TransactionHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	cents, err := req.validate()
	if err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.Store.FindTransaction(user.ID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "Transaction not found or you do not have permission to edit it.")
			return
		}
		log.Printf("update transaction: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error updating transaction")
		return
	}

	category, err := h.Store.FindCategory(user.ID, req.CategoryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "Category not found")
			return
		}
		log.Printf("update transaction: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error updating transaction")
		return
	}

	tx.Description = req.Description
	tx.AmountCents = cents
	tx.TransactionDate = req.TransactionDate
	tx.CategoryID = category.ID
	tx.Category = *category

	if err := h.Store.UpdateTransaction(tx); err != nil {
		log.Printf("update transaction: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error updating transaction")
		return
	}
	c.JSON(http.StatusOK, toResp(*tx))
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Store.DeleteTransaction(user.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "Transaction not found or you do not have permission to delete it.")
			return
		}
		log.Printf("delete transaction: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error deleting transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPDF extracts the text layer from an uploaded bank statement and runs
// the dedup/import pipeline over its lines.
func (h *TransactionHandler) UploadPDF(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, "No PDF file uploaded.")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		util.Error(c, http.StatusBadRequest, "File too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("upload-pdf: open file: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to parse PDF.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		log.Printf("upload-pdf: read file: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to parse PDF.")
		return
	}

	text, err := pdftext.Extract(data)
	if err != nil {
		log.Printf("upload-pdf: extract: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to parse PDF.")
		return
	}

	result, err := h.Importer.ImportStatement(user.ID, text)
	if err != nil {
		log.Printf("upload-pdf: import: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to parse PDF.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "PDF processed successfully.",
		"imported":   result.Imported,
		"duplicates": result.Duplicates,
	})
}
