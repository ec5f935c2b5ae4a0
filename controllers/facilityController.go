package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"fixitnow-be/config"
	"fixitnow-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var facilityCollection *mongo.Collection = config.GetCollection("facilities")
var reviewCollection *mongo.Collection = config.GetCollection("reviews")

// GetAllFacilities handles retrieving the facility catalog with filtering and pagination
func GetAllFacilities(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status := c.Query("status")
	search := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{}

	if status != "" && status != "all" {
		filter["status"] = status
	}

	if search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": search, "$options": "i"}},
			{"location": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	skip := (page - 1) * limit

	totalCount, err := facilityCollection.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count facilities"})
		return
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "averageRating", Value: -1}, {Key: "name", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := facilityCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve facilities"})
		return
	}
	defer cursor.Close(ctx)

	var facilities []models.Facility
	if err := cursor.All(ctx, &facilities); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode facilities"})
		return
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, gin.H{
		"facilities":      facilities,
		"totalFacilities": totalCount,
		"totalPages":      totalPages,
		"currentPage":     page,
	})
}

// GetFacility retrieves a facility by its ID
func GetFacility(c *gin.Context) {
	idParam := c.Param("id")
	facilityID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid facility ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var facility models.Facility
	err = facilityCollection.FindOne(ctx, bson.M{"_id": facilityID}).Decode(&facility)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Facility not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve facility"})
		}
		return
	}

	c.JSON(http.StatusOK, facility)
}

// CreateFacility adds a facility to the catalog. Admin only.
func CreateFacility(c *gin.Context) {
	var input struct {
		Name        string   `json:"name" binding:"required,max=200"`
		Description string   `json:"description" binding:"max=1000"`
		Location    string   `json:"location" binding:"required,max=200"`
		Latitude    *float64 `json:"latitude,omitempty"`
		Longitude   *float64 `json:"longitude,omitempty"`
		PhotoURL    *string  `json:"photoUrl,omitempty"`
		Status      *string  `json:"status,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.FacilityActive
	if input.Status != nil {
		if !models.ValidFacilityStatus(*input.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		status = models.FacilityStatus(*input.Status)
	}

	facility := models.Facility{
		ID:          primitive.NewObjectID(),
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		PhotoURL:    input.PhotoURL,
		Status:      status,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := facilityCollection.InsertOne(ctx, facility)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create facility"})
		return
	}

	c.JSON(http.StatusCreated, facility)
}

// UpdateFacility edits catalog details. Admin only.
func UpdateFacility(c *gin.Context) {
	idParam := c.Param("id")
	facilityID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid facility ID"})
		return
	}

	var input struct {
		Name        *string  `json:"name,omitempty"`
		Description *string  `json:"description,omitempty"`
		Location    *string  `json:"location,omitempty"`
		Latitude    *float64 `json:"latitude,omitempty"`
		Longitude   *float64 `json:"longitude,omitempty"`
		PhotoURL    *string  `json:"photoUrl,omitempty"`
		Status      *string  `json:"status,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.Description != nil {
		update["description"] = *input.Description
	}
	if input.Location != nil {
		update["location"] = *input.Location
	}
	if input.Latitude != nil {
		update["latitude"] = *input.Latitude
	}
	if input.Longitude != nil {
		update["longitude"] = *input.Longitude
	}
	if input.PhotoURL != nil {
		update["photoUrl"] = input.PhotoURL
	}
	if input.Status != nil {
		if !models.ValidFacilityStatus(*input.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		update["status"] = *input.Status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := facilityCollection.UpdateOne(ctx, bson.M{"_id": facilityID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update facility"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Facility not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Facility updated successfully"})
}

// DeleteFacility removes a facility and its reviews. Admin only.
func DeleteFacility(c *gin.Context) {
	idParam := c.Param("id")
	facilityID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid facility ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := facilityCollection.DeleteOne(ctx, bson.M{"_id": facilityID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete facility"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Facility not found"})
		return
	}

	// Delete associated reviews
	_, _ = reviewCollection.DeleteMany(ctx, bson.M{"facility": facilityID})

	c.JSON(http.StatusOK, gin.H{"message": "Facility deleted successfully"})
}
