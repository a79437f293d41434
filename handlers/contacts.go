package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phonebook/store"
)

type ContactHandler struct {
	contacts store.ContactStore
	log      *zap.SugaredLogger
}

func NewContactHandler(contacts store.ContactStore, log *zap.SugaredLogger) *ContactHandler {
	return &ContactHandler{contacts: contacts, log: log}
}

// parsePositive coerces a query parameter to a positive integer, falling back
// to the default for anything missing or malformed.
func parsePositive(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func (h *ContactHandler) List(c *gin.Context) {
	ownerID := c.GetString("userID")
	page := parsePositive(c.Query("page"), 1)
	limit := parsePositive(c.Query("limit"), 20)

	var favorite *bool
	if v := c.Query("favorite"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid favorite value"})
			return
		}
		favorite = &b
	}

	result, err := h.contacts.List(ownerID, page, limit, favorite)
	if err != nil {
		h.log.Errorw("list contacts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ContactHandler) Get(c *gin.Context) {
	ownerID := c.GetString("userID")

	contact, err := h.contacts.Get(ownerID, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		h.log.Errorw("get contact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Create(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
		return
	}

	ownerID := c.GetString("userID")
	contact, err := h.contacts.Create(ownerID, store.ContactInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		h.log.Errorw("create contact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) Update(c *gin.Context) {
	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		Favorite *bool   `json:"favorite"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
		return
	}
	if req.Name == nil && req.Email == nil && req.Phone == nil && req.Favorite == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Body must have at least one field"})
		return
	}
	if req.Name != nil && *req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Set name for contact"})
		return
	}

	ownerID := c.GetString("userID")
	contact, err := h.contacts.Update(ownerID, c.Param("id"), store.ContactPatch{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Favorite: req.Favorite,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		h.log.Errorw("update contact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	ownerID := c.GetString("userID")

	contact, err := h.contacts.Delete(ownerID, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		h.log.Errorw("delete contact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) SetFavorite(c *gin.Context) {
	var req struct {
		Favorite *bool `json:"favorite" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
		return
	}

	ownerID := c.GetString("userID")
	contact, err := h.contacts.SetFavorite(ownerID, c.Param("id"), *req.Favorite)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		h.log.Errorw("set favorite", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, contact)
}
