package controllers

import (
	"context"
	"net/http"
	"time"

	"fixitnow-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubmitReview records the user's rating of a facility. A second submission
// by the same user replaces their earlier review rather than stacking.
func SubmitReview(c *gin.Context) {
	idParam := c.Param("id")
	facilityID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid facility ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment" binding:"required,max=500"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Check if the facility exists
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

	var user models.User
	userName := ""
	if err := userCollection.FindOne(ctx, bson.M{"_id": userObjID}).Decode(&user); err == nil {
		userName = user.Name
	}

	review := models.Review{
		ID:        primitive.NewObjectID(),
		Facility:  facilityID,
		User:      userObjID,
		UserName:  userName,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now(),
	}

	_, err = reviewCollection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// rewrite the user's existing review in place
			_, err = reviewCollection.UpdateOne(ctx,
				bson.M{"facility": facilityID, "user": userObjID},
				bson.M{"$set": bson.M{
					"rating":    input.Rating,
					"comment":   input.Comment,
					"userName":  userName,
					"createdAt": time.Now(),
				}},
			)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
			return
		}
	}

	if err := recomputeFacilityRating(ctx, facilityID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update facility rating"})
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetFacilityReviews lists the reviews of one facility, newest first
func GetFacilityReviews(c *gin.Context) {
	idParam := c.Param("id")
	facilityID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid facility ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := reviewCollection.Find(ctx, bson.M{"facility": facilityID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reviews"})
		return
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode reviews"})
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// recomputeFacilityRating re-aggregates a facility's average rating and
// review count after a review changes.
func recomputeFacilityRating(ctx context.Context, facilityID primitive.ObjectID) error {
	pipeline := []bson.M{
		{
			"$match": bson.M{"facility": facilityID},
		},
		{
			"$group": bson.M{
				"_id":     nil,
				"average": bson.M{"$avg": "$rating"},
				"count":   bson.M{"$sum": 1},
			},
		},
	}

	cursor, err := reviewCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Average float64 `bson:"average"`
		Count   int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return err
	}

	average := 0.0
	count := int64(0)
	if len(results) > 0 {
		average = results[0].Average
		count = results[0].Count
	}

	_, err = facilityCollection.UpdateOne(ctx, bson.M{"_id": facilityID}, bson.M{
		"$set": bson.M{
			"averageRating": average,
			"reviewCount":   count,
			"updatedAt":     time.Now(),
		},
	})
	return err
}
