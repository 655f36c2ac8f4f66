package handler

import (
	"github.com/ferreteria/ordenes-api/internal/domain/enum"
	"github.com/gin-gonic/gin"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uint {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uint)
	if !ok {
		return nil
	}
	return &userID
}

// GetUsername extracts the username from the Gin context
func GetUsername(c *gin.Context) string {
	return c.GetString("username")
}

// GetUserRole extracts the user role from the Gin context
func GetUserRole(c *gin.Context) enum.Role {
	role, _ := c.Get("user_role")
	r, ok := role.(enum.Role)
	if !ok {
		return enum.RoleUser
	}
	return r
}

// IsAdmin checks if the user has the admin role
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == enum.RoleAdmin
}

// ownerFilter returns the owner an order listing is restricted to.
// Admins see every order, everyone else their own plus unowned ones,
// the same rule canSee applies to single records.
func ownerFilter(c *gin.Context) *uint {
	if IsAdmin(c) {
		return nil
	}
	return GetUserID(c)
}
