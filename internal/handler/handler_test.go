package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/importer"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/middleware"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/models"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/store"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

type testEnv struct {
	store  *store.Store
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Category{}, &models.Transaction{}))

	st := store.New(db)
	imp := importer.New(st)

	r := gin.New()
	api := r.Group("/api")

	authHandler := NewAuthHandler(st, testSecret, 8)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(testSecret, st))

	categoryHandler := NewCategoryHandler(st)
	protected.GET("/categories", categoryHandler.List)
	protected.POST("/categories", categoryHandler.Create)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	txHandler := NewTransactionHandler(st, imp, 10)
	protected.GET("/transactions", txHandler.List)
	protected.POST("/transactions", txHandler.Create)
	protected.POST("/transactions/upload-pdf", txHandler.UploadPDF)
	protected.PUT("/transactions/:id", txHandler.Update)
	protected.DELETE("/transactions/:id", txHandler.Delete)

	return &testEnv{store: st, router: r}
}

func (e *testEnv) signup(t *testing.T, email string) (*models.User, string) {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x"}
	require.NoError(t, e.store.CreateUser(user))
	token, err := util.GenerateToken(testSecret, user.ID, user.Email, time.Hour)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "new@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "new@example.com", created.Email)

	// the same email cannot register twice
	w = env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "new@example.com", "password": "other",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "new@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", message(t, w))

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "new@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)

	// the issued token works against a protected route
	w = env.do(t, http.MethodGet, "/api/categories", login.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegister_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "a@b.co"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "not an email", "password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/categories", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication token is required", message(t, w))

	w = env.do(t, http.MethodGet, "/api/categories", "not-a-jwt", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Token is invalid or expired", message(t, w))

	user, _ := env.signup(t, "expired@example.com")
	expired, err := util.GenerateToken(testSecret, user.ID, user.Email, time.Nanosecond)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	w = env.do(t, http.MethodGet, "/api/categories", expired, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// query parameter fallback
	_, token := env.signup(t, "query@example.com")
	w = env.do(t, http.MethodGet, "/api/categories?token="+token, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCategoryCRUD(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "cat@example.com")

	w := env.do(t, http.MethodPost, "/api/categories", token, gin.H{
		"name": "Groceries", "type": "expense",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var cat models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))

	w = env.do(t, http.MethodPost, "/api/categories", token, gin.H{
		"name": "Groceries", "type": "income",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "A category with this name already exists.", message(t, w))

	w = env.do(t, http.MethodPost, "/api/categories", token, gin.H{
		"name": "Stuff", "type": "savings",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/categories/%d", cat.ID), token, gin.H{
		"name": "Food",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var renamed models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &renamed))
	assert.Equal(t, "Food", renamed.Name)
	assert.Equal(t, "expense", renamed.Type)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", cat.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCategoryDelete_BlockedWhileReferenced(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.signup(t, "blocked@example.com")

	cat := &models.Category{UserID: user.ID, Name: "Dining", Type: "expense"}
	require.NoError(t, env.store.CreateCategory(cat))
	require.NoError(t, env.store.CreateTransaction(&models.Transaction{
		UserID: user.ID, CategoryID: cat.ID,
		Description: "Lunch", AmountCents: 1250, TransactionDate: "2024-03-01",
	}))

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", cat.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t,
		"Cannot delete category. It is associated with 1 transaction(s). Please re-assign them first.",
		message(t, w))

	// still there
	_, err := env.store.FindCategory(user.ID, cat.ID)
	assert.NoError(t, err)
}

func TestCrossUserIsolation(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.signup(t, "owner@example.com")
	_, intruderToken := env.signup(t, "intruder@example.com")

	cat := &models.Category{UserID: owner.ID, Name: "Rent", Type: "expense"}
	require.NoError(t, env.store.CreateCategory(cat))
	tx := &models.Transaction{
		UserID: owner.ID, CategoryID: cat.ID,
		Description: "March rent", AmountCents: 120000, TransactionDate: "2024-03-01",
	}
	require.NoError(t, env.store.CreateTransaction(tx))

	// another user's resources look like they do not exist
	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/categories/%d", cat.ID), intruderToken, gin.H{"name": "Mine"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", cat.ID), intruderToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", tx.ID), intruderToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// nor can a transaction be created against someone else's category
	w = env.do(t, http.MethodPost, "/api/transactions", intruderToken, gin.H{
		"description": "sneaky", "amount": "1.00",
		"transactionDate": "2024-03-02", "categoryId": cat.ID,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.signup(t, "tx@example.com")

	cat := &models.Category{UserID: user.ID, Name: "Salary", Type: "income"}
	require.NoError(t, env.store.CreateCategory(cat))

	// amount accepted as a JSON number
	w := env.do(t, http.MethodPost, "/api/transactions", token, gin.H{
		"description": "Paycheck", "amount": 2500.50,
		"transactionDate": "2024-04-01", "categoryId": cat.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID     uint   `json:"id"`
		Amount string `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "2500.50", created.Amount)

	// and as a decimal string
	w = env.do(t, http.MethodPost, "/api/transactions", token, gin.H{
		"description": "Bonus", "amount": "100.00",
		"transactionDate": "2024-04-02", "categoryId": cat.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/transactions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		TotalItems   int64 `json:"totalItems"`
		TotalPages   int64 `json:"totalPages"`
		CurrentPage  int   `json:"currentPage"`
		Transactions []struct {
			Description string `json:"description"`
			Amount      string `json:"amount"`
		} `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, int64(2), list.TotalItems)
	assert.Equal(t, int64(1), list.TotalPages)
	assert.Equal(t, 1, list.CurrentPage)
	require.Len(t, list.Transactions, 2)
	// newest date first
	assert.Equal(t, "Bonus", list.Transactions[0].Description)
}

func TestTransactionCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.signup(t, "val@example.com")
	cat := &models.Category{UserID: user.ID, Name: "Misc", Type: "expense"}
	require.NoError(t, env.store.CreateCategory(cat))

	cases := []gin.H{
		{"description": "", "amount": "1.00", "transactionDate": "2024-04-01", "categoryId": cat.ID},
		{"description": "x", "amount": "1.005", "transactionDate": "2024-04-01", "categoryId": cat.ID},
		{"description": "x", "amount": "1.00", "transactionDate": "04/01/2024", "categoryId": cat.ID},
		{"description": "x", "amount": "1.00", "transactionDate": "2024-04-01"},
	}
	for _, body := range cases {
		w := env.do(t, http.MethodPost, "/api/transactions", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestTransactionUpdate(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.signup(t, "upd@example.com")
	cat := &models.Category{UserID: user.ID, Name: "Travel", Type: "expense"}
	require.NoError(t, env.store.CreateCategory(cat))
	tx := &models.Transaction{
		UserID: user.ID, CategoryID: cat.ID,
		Description: "Taxi", AmountCents: 900, TransactionDate: "2024-05-01",
	}
	require.NoError(t, env.store.CreateTransaction(tx))

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/transactions/%d", tx.ID), token, gin.H{
		"description": "Airport taxi", "amount": "19.90",
		"transactionDate": "2024-05-02", "categoryId": cat.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		Description string `json:"description"`
		Amount      string `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Airport taxi", updated.Description)
	assert.Equal(t, "19.90", updated.Amount)

	w = env.do(t, http.MethodPut, "/api/transactions/999", token, gin.H{
		"description": "ghost", "amount": "1.00",
		"transactionDate": "2024-05-02", "categoryId": cat.ID,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadPDF_NoFile(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "pdf@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/upload-pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No PDF file uploaded.", message(t, w))
}
