package handlers

import (
	"context"
	"net/http"
	"path/filepath"

	"taskhive/internal/database"
	"taskhive/internal/models"
	"taskhive/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateGroup handles the creation of a new group. The creator is always the
// first member.
func CreateGroup(c *gin.Context) {
	var request models.CreateGroupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logrus.Errorf("Error: Invalid input: %s", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Group name and description are required."})
		return
	}

	email := c.GetString("email")
	if email == "" {
		logrus.Error("Error: Not authenticated")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	group := models.Group{
		Name:        request.Name,
		Description: request.Description,
		CreatedBy:   email,
		Members:     []string{email},
		Files:       []string{},
	}

	result, err := database.Collection(database.GroupsCollection).InsertOne(ctx, group)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create group", err)
		return
	}
	group.ID = result.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, group)
}

// GetGroups lists every group the authenticated user is a member of
func GetGroups(c *gin.Context) {
	email := c.GetString("email")

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cursor, err := database.Collection(database.GroupsCollection).
		Find(ctx, bson.M{"members": email})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch groups", err)
		return
	}
	defer cursor.Close(ctx)

	groups := []models.Group{}
	if err := cursor.All(ctx, &groups); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch groups", err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

// GetGroupByID handles fetching a single group's details by ID
func GetGroupByID(c *gin.Context) {
	group, ok := findGroup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, group)
}

// AddMember adds a member email to a group. Adding an existing member is a
// no-op, keeping the member list unique.
func AddMember(c *gin.Context) {
	var request models.MemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logrus.Errorf("Error: Invalid input: %s", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid member email is required."})
		return
	}

	group, ok := findGroup(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	// $addToSet keeps member emails unique within the group
	_, err := database.Collection(database.GroupsCollection).UpdateOne(ctx,
		bson.M{"_id": group.ID},
		bson.M{"$addToSet": bson.M{"members": request.Email}})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to add member", err)
		return
	}

	if !group.HasMember(request.Email) {
		group.Members = append(group.Members, request.Email)
	}
	c.JSON(http.StatusOK, group)
}

// RemoveMember removes a member email from a group
func RemoveMember(c *gin.Context) {
	var request models.MemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logrus.Errorf("Error: Invalid input: %s", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid member email is required."})
		return
	}

	group, ok := findGroup(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	_, err := database.Collection(database.GroupsCollection).UpdateOne(ctx,
		bson.M{"_id": group.ID},
		bson.M{"$pull": bson.M{"members": request.Email}})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to remove member", err)
		return
	}

	members := group.Members[:0]
	for _, member := range group.Members {
		if member != request.Email {
			members = append(members, member)
		}
	}
	group.Members = members
	c.JSON(http.StatusOK, group)
}

// DeleteGroup removes a group. Tasks and notifications referencing the group
// are left in place; readers tolerate the dangling reference.
func DeleteGroup(c *gin.Context) {
	group, ok := findGroup(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if _, err := database.Collection(database.GroupsCollection).
		DeleteOne(ctx, bson.M{"_id": group.ID}); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete group", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group removed"})
}

// UploadGroupFile stores an upload on disk and records its name on the group
func UploadGroupFile(c *gin.Context) {
	group, ok := findGroup(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded."})
		return
	}

	filename := utils.StoredFilename(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, filename)); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to store file", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if _, err := database.Collection(database.GroupsCollection).UpdateOne(ctx,
		bson.M{"_id": group.ID},
		bson.M{"$push": bson.M{"files": filename}}); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to record file", err)
		return
	}

	group.Files = append(group.Files, filename)
	c.JSON(http.StatusOK, gin.H{"message": "File uploaded successfully", "group": group})
}

// GetGroupMembers lists a group's member emails
func GetGroupMembers(c *gin.Context) {
	group, ok := findGroup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, group.Members)
}

// findGroup loads the group named by the :id route parameter, answering the
// request itself when the id is invalid or the group does not exist
func findGroup(c *gin.Context) (models.Group, bool) {
	groupID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID."})
		return models.Group{}, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var group models.Group
	if err := database.Collection(database.GroupsCollection).
		FindOne(ctx, bson.M{"_id": groupID}).Decode(&group); err != nil {
		logrus.Errorf("Error: Group not found: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return models.Group{}, false
	}

	return group, true
}
