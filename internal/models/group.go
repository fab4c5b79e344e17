package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Group represents a team in the system. Members are stored as a list of
// unique emails; the creator is always a member. Files holds the names of
// uploads attached to the group.
type Group struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	CreatedBy   string             `bson:"createdBy" json:"created_by"`
	Members     []string           `bson:"members" json:"members"`
	Files       []string           `bson:"files" json:"files"`
}

// HasMember reports whether the given email is in the member list
func (g *Group) HasMember(email string) bool {
	for _, member := range g.Members {
		if member == email {
			return true
		}
	}
	return false
}

// CreateGroupRequest represents the data needed to create a new group
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// MemberRequest identifies a member to add to or remove from a group
type MemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}
