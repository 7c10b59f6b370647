package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/models"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/store"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves category CRUD, all scoped to the acting user.
type CategoryHandler struct {
	Store *store.Store
}

func NewCategoryHandler(st *store.Store) *CategoryHandler {
	return &CategoryHandler{Store: st}
}

func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	categories, err := h.Store.ListCategories(user.ID)
	if err != nil {
		log.Printf("list categories: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error fetching categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

type createCategoryReq struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Name and type are required")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, "Name and type are required")
		return
	}
	if err := util.ValidateCategoryType(req.Type); err != nil {
		util.Error(c, http.StatusBadRequest, "Type must be income or expense")
		return
	}

	category := models.Category{
		UserID: user.ID,
		Name:   req.Name,
		Type:   req.Type,
	}
	if err := h.Store.CreateCategory(&category); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			util.Error(c, http.StatusConflict, "A category with this name already exists.")
			return
		}
		log.Printf("create category: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error creating category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

type updateCategoryReq struct {
	Name string `json:"name"`
}

// Update renames a category. Its type is immutable after creation.
func (h *CategoryHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Name is required")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, "Name is required")
		return
	}

	category, err := h.Store.RenameCategory(user.ID, id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			util.Error(c, http.StatusNotFound, "Category not found or you don't have permission to edit it.")
		case errors.Is(err, store.ErrDuplicate):
			util.Error(c, http.StatusConflict, "A category with this name already exists.")
		default:
			log.Printf("rename category: %v", err)
			util.Error(c, http.StatusInternalServerError, "Error updating category")
		}
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete removes a category, refusing while any transaction still references
// it. The referential guard is a 409, not a cascade.
func (h *CategoryHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.Store.FindCategory(user.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "Category not found or you don't have permission to delete it.")
			return
		}
		log.Printf("delete category: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error deleting category")
		return
	}

	count, err := h.Store.CountCategoryTransactions(id)
	if err != nil {
		log.Printf("delete category: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error deleting category")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusConflict, fmt.Sprintf(
			"Cannot delete category. It is associated with %d transaction(s). Please re-assign them first.", count))
		return
	}

	if err := h.Store.DeleteCategory(user.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "Category not found or you don't have permission to delete it.")
			return
		}
		log.Printf("delete category: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error deleting category")
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses the :id path parameter, writing a 400 on garbage.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}
