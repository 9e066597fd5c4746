package controllers

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"cv-portal-api/config"
	"cv-portal-api/middleware"
	"cv-portal-api/models"
	"cv-portal-api/services"
	"cv-portal-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	Name    string `json:"name"`
	RoleID  int    `json:"role_id"`
	Message string `json:"message"`
}

// Login authenticates the admin (env credentials) or a reviewer
// (case-insensitive name lookup, plaintext password comparison against
// the stored value; the portal predates hashed reviewer passwords).
func Login(c *gin.Context) {
	var req LoginRequest

	// Bind request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Admin account comes from the environment, not reviewer_data
	adminUser := os.Getenv("ADMIN_USERNAME")
	if adminUser != "" && strings.EqualFold(req.Name, adminUser) {
		if !checkAdminPassword(req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid name or password"})
			return
		}

		token, err := generateToken(adminUser, middleware.RoleAdmin)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, LoginResponse{
			Token:   token,
			Name:    adminUser,
			RoleID:  middleware.RoleAdmin,
			Message: "Login successful",
		})
		return
	}

	// Find reviewer by name
	var reviewer models.Reviewer
	if err := config.DB.Where("UPPER(name) = UPPER(?)", req.Name).First(&reviewer).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid name or password"})
		return
	}

	if reviewer.Password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid name or password"})
		return
	}

	token, err := generateToken(reviewer.Name, middleware.RoleReviewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:   token,
		Name:    reviewer.Name,
		RoleID:  middleware.RoleReviewer,
		Message: "Login successful",
	})
}

// GetProfile returns the caller's profile.
func GetProfile(c *gin.Context) {
	name, _ := c.Get("name")
	roleID, _ := c.Get("roleID")

	if roleID.(int) == middleware.RoleAdmin {
		c.JSON(http.StatusOK, gin.H{"name": name, "role_id": roleID})
		return
	}

	summary, err := services.NewReviewerService(config.DB).Summary(name.(string))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": summary, "role_id": roleID})
}

// checkAdminPassword prefers the bcrypt hash; the plaintext
// ADMIN_PASSWORD variable is a dev fallback.
func checkAdminPassword(password string) bool {
	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		return utils.CheckPasswordHash(password, hash)
	}
	if plain := os.Getenv("ADMIN_PASSWORD"); plain != "" {
		return password == plain
	}
	return false
}

// generateToken creates JWT token
func generateToken(name string, roleID int) (string, error) {
	// Get expiration hours from env
	expireHours, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil {
		expireHours = 24 // default 24 hours
	}

	// Create claims
	claims := middleware.Claims{
		Name:   name,
		RoleID: roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	// Create token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// Sign token
	tokenString, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
