package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account in the system. A user holds at most
// one valid refresh token at a time; signup, login and refresh overwrite it.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password" json:"-"`
	RefreshToken string             `bson:"refreshToken,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"created_at"`
}

// SignupRequest represents the data needed to create a new user
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the data needed for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token presented for a new access token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}
