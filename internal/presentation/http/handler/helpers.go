package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserEmail extracts the user email from the Gin context
func GetUserEmail(c *gin.Context) string {
	email, exists := c.Get("user_email")
	if !exists {
		return ""
	}
	return email.(string)
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	roles, exists := c.Get("user_roles")
	if !exists {
		return nil
	}
	return roles.([]string)
}

// GetUserPermissions extracts the user permissions from the Gin context
func GetUserPermissions(c *gin.Context) []string {
	permissions, exists := c.Get("user_permissions")
	if !exists {
		return nil
	}
	return permissions.([]string)
}

// HasPermission checks if the user carries the named permission
func HasPermission(c *gin.Context, permission string) bool {
	for _, p := range GetUserPermissions(c) {
		if p == permission {
			return true
		}
	}
	return false
}

// CanViewAllSales reports whether the user may see sales beyond their own
func CanViewAllSales(c *gin.Context) bool {
	return HasPermission(c, "view-all-sales")
}
