package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/models"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/store"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// AuthHandler serves registration and login.
type AuthHandler struct {
	Store     *store.Store
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthHandler(st *store.Store, jwtSecret string, ttlHours int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 8
	}
	return &AuthHandler{
		Store:     st,
		JWTSecret: jwtSecret,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
	}
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		util.Error(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := util.ValidateEmail(req.Email); err != nil {
		util.Error(c, http.StatusBadRequest, "A valid email address is required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Error registering user")
		return
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := h.Store.CreateUser(&user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			util.Error(c, http.StatusConflict, "An account with this email already exists")
			return
		}
		log.Printf("register: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error registering user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"email": user.Email,
	})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.Store.FindUserByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Printf("login: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error logging in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		util.Error(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, user.ID, user.Email, h.TokenTTL)
	if err != nil {
		log.Printf("login: sign token: %v", err)
		util.Error(c, http.StatusInternalServerError, "Error logging in")
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": token})
}
