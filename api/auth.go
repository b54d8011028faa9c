package api

import (
	"github.com/Domenick1991/flightbooking/internal/service/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service auth.AuthUseCase
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func NewAuthHandler(service auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register mounts the public routes.
func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/signup", h.signUp)
	router.POST("/signin", h.signIn)
}

// RegisterSession mounts the routes that need a signed-in caller.
func (h *AuthHandler) RegisterSession(router *gin.RouterGroup) {
	router.POST("/signout", h.signOut)
	router.GET("/me", h.me)
}

func (h *AuthHandler) signUp(c *gin.Context) {
	var in auth.SignUpInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	profile, err := h.service.SignUp(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, profile)
}

func (h *AuthHandler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	session, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, session)
}

func (h *AuthHandler) signOut(c *gin.Context) {
	if err := h.service.SignOut(c.Request.Context(), bearerToken(c)); err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"signed_out": true})
}

func (h *AuthHandler) me(c *gin.Context) {
	id, _ := identity(c)
	profile, err := h.service.Profile(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, profile)
}
