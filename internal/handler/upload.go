package handler

import (
	"io"
	"log"
	"net/http"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/ocr"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/parser"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/util"

	"github.com/gin-gonic/gin"
)

// UploadHandler serves the receipt OCR autofill endpoint.
type UploadHandler struct {
	OCR ocr.Recognizer
}

func NewUploadHandler(recognizer ocr.Recognizer) *UploadHandler {
	return &UploadHandler{OCR: recognizer}
}

// Receipt runs OCR on the uploaded image and returns a best-effort autofill
// suggestion. The heuristics never fail; only the OCR engine can, and that
// surfaces as a 500.
func (h *UploadHandler) Receipt(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		util.Error(c, http.StatusBadRequest, "No file uploaded.")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		util.Error(c, http.StatusBadRequest, "File too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("receipt: open file: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to process receipt.")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		log.Printf("receipt: read file: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to process receipt.")
		return
	}

	text, err := h.OCR.Recognize(c.Request.Context(), image, fileHeader.Filename)
	if err != nil {
		log.Printf("receipt: ocr: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to process receipt.")
		return
	}

	data := parser.ParseReceipt(text)

	var total *float64
	if data.TotalCents != nil {
		v := float64(*data.TotalCents) / 100
		total = &v
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Receipt processed successfully",
		"extractedData": gin.H{
			"merchant": data.Merchant,
			"total":    total,
			"date":     data.Date,
		},
	})
}
