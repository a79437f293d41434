package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"phonebook/auth"
	"phonebook/models"
	"phonebook/services"
	"phonebook/store"
)

type UserHandler struct {
	users    store.UserStore
	mailer   services.Mailer
	avatars  *services.AvatarService
	secret   []byte
	tokenTTL time.Duration
	log      *zap.SugaredLogger
}

func NewUserHandler(users store.UserStore, mailer services.Mailer, avatars *services.AvatarService, secret []byte, tokenTTL time.Duration, log *zap.SugaredLogger) *UserHandler {
	return &UserHandler{
		users:    users,
		mailer:   mailer,
		avatars:  avatars,
		secret:   secret,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.Errorw("hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	email := strings.ToLower(req.Email)
	verificationToken := uuid.NewString()

	user := &models.User{
		Email:             email,
		PasswordHash:      hash,
		Subscription:      services.PlanStarter,
		AvatarURL:         services.GravatarURL(email),
		VerificationToken: &verificationToken,
	}

	if err := h.users.Create(user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email in use"})
			return
		}
		h.log.Errorw("create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	// Best effort: the account exists either way, re-delivery goes through
	// the resend endpoint.
	if err := h.mailer.SendVerificationEmail(email, verificationToken); err != nil {
		h.log.Errorw("send verification email", "email", email, "error", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"email":        user.Email,
			"subscription": user.Subscription,
			"avatarURL":    user.AvatarURL,
		},
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
		return
	}

	user, err := h.users.GetByEmail(strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Email or password are incorrect"})
			return
		}
		h.log.Errorw("get user by email", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Email or password are incorrect"})
		return
	}

	if !user.Verify {
		c.JSON(http.StatusForbidden, gin.H{"message": "Email not verified"})
		return
	}

	token, err := auth.GenerateToken(user.ID, h.secret, h.tokenTTL)
	if err != nil {
		h.log.Errorw("generate token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	// Overwrites any previous session: one active token per user.
	if err := h.users.SetToken(user.ID, &token); err != nil {
		h.log.Errorw("store session token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"email":        user.Email,
			"subscription": user.Subscription,
		},
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.users.SetToken(userID, nil); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}
		h.log.Errorw("clear session token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Current(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := h.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}
		h.log.Errorw("get current user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":        user.Email,
		"subscription": user.Subscription,
		"avatarURL":    user.AvatarURL,
	})
}

func (h *UserHandler) UpdateSubscription(c *gin.Context) {
	var req struct {
		Subscription string `json:"subscription"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !services.IsValidPlan(req.Subscription) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid subscription value"})
		return
	}

	userID := c.GetString("userID")
	if err := h.users.SetSubscription(userID, req.Subscription); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.log.Errorw("update subscription", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Success", "subscription": req.Subscription})
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Avatar file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.log.Errorw("open avatar upload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	defer file.Close()

	userID := c.GetString("userID")
	avatarURL, err := h.avatars.Save(userID, file, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, services.ErrBadImage) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot process image"})
			return
		}
		h.log.Errorw("save avatar", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if err := h.users.SetAvatarURL(userID, avatarURL); err != nil {
		h.log.Errorw("update avatar url", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatarURL": avatarURL})
}

func (h *UserHandler) Verify(c *gin.Context) {
	token := c.Param("verificationToken")

	user, err := h.users.GetByVerificationToken(token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.log.Errorw("look up verification token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	// TODO: the token is cleared here, so confirming a second time 404s.
	// Decide whether re-confirming an already-verified user should return
	// success instead.
	if err := h.users.SetVerified(user.ID); err != nil {
		h.log.Errorw("mark user verified", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification successful"})
}

func (h *UserHandler) ResendVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing required field email"})
		return
	}

	user, err := h.users.GetByEmail(strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.log.Errorw("get user by email", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if user.Verify || user.VerificationToken == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Verification has already been passed"})
		return
	}

	if err := h.mailer.SendVerificationEmail(user.Email, *user.VerificationToken); err != nil {
		h.log.Errorw("resend verification email", "email", user.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}
