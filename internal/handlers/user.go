package handlers

import (
	"context"
	"net/http"
	"time"

	"taskhive/internal/auth"
	"taskhive/internal/database"
	"taskhive/internal/models"
	"taskhive/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Signup registers a new user and issues an access/refresh token pair
func Signup(c *gin.Context) {
	var request models.SignupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logrus.Errorf("Error: Invalid signup input: %s", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	users := database.Collection(database.UsersCollection)

	// Check if email already exists
	err := users.FindOne(ctx, bson.M{"email": request.Email}).Err()
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered."})
		return
	}
	if err != mongo.ErrNoDocuments {
		handleError(c, http.StatusInternalServerError, "Server error.", err)
		return
	}

	hashedPassword, err := auth.HashPassword(request.Password)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Server error.", err)
		return
	}

	user := models.User{
		Name:      request.Name,
		Email:     request.Email,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
	}

	result, err := users.InsertOne(ctx, user)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to register user.", err)
		return
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	accessToken, refreshToken, err := issueTokens(ctx, user)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to issue tokens.", err)
		return
	}

	logrus.Infof("User registered: %s from %s", user.Email, utils.ClientIP(c))
	c.JSON(http.StatusCreated, gin.H{
		"message":      "User registered successfully.",
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Login authenticates a user and issues a fresh token pair. The stored
// refresh token is overwritten, so at most one refresh token is valid.
func Login(c *gin.Context) {
	var request models.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logrus.Errorf("Error: Invalid login input: %s", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required."})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var user models.User
	if err := database.Collection(database.UsersCollection).
		FindOne(ctx, bson.M{"email": request.Email}).Decode(&user); err != nil {
		logrus.Errorf("Error: User not found: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		return
	}

	if !auth.CheckPassword(user.Password, request.Password) {
		logrus.Warnf("Invalid password for %s from %s", request.Email, utils.ClientIP(c))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password."})
		return
	}

	accessToken, refreshToken, err := issueTokens(ctx, user)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to issue tokens.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful.",
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// Refresh exchanges a valid refresh token for a new access token
func Refresh(c *gin.Context) {
	var request models.RefreshRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token is required."})
		return
	}

	claims, err := auth.ValidateRefreshToken(request.RefreshToken)
	if err != nil {
		logrus.Errorf("Error: Invalid refresh token: %v", err)
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired refresh token."})
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid refresh token."})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var user models.User
	if err := database.Collection(database.UsersCollection).
		FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		logrus.Errorf("Error: Refresh token user not found: %v", err)
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid refresh token."})
		return
	}

	// The presented token must match the one stored at last login
	if !auth.CheckRefreshToken(user.RefreshToken, request.RefreshToken) {
		logrus.Warnf("Stale refresh token presented for %s", user.Email)
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid refresh token."})
		return
	}

	accessToken, err := auth.GenerateAccessToken(user.ID.Hex(), user.Email)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to issue access token.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

// Logout acknowledges a logout. Access tokens are short-lived and stateless;
// the client discards its copy.
func Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// issueTokens generates a token pair and stores the refresh token hash on the
// user document, invalidating any previous refresh token
func issueTokens(ctx context.Context, user models.User) (string, string, error) {
	accessToken, err := auth.GenerateAccessToken(user.ID.Hex(), user.Email)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := auth.GenerateRefreshToken(user.ID.Hex(), user.Email)
	if err != nil {
		return "", "", err
	}

	hashedToken, err := auth.HashRefreshToken(refreshToken)
	if err != nil {
		return "", "", err
	}

	_, err = database.Collection(database.UsersCollection).UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"refreshToken": hashedToken}})
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}
