package controllers

import (
	"context"
	"net/http"
	"time"

	"fixitnow-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetAnalytics returns the aggregates behind the government dashboard
func GetAnalytics(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Get reports by category using aggregation
	categoryPipeline := []bson.M{
		{
			"$group": bson.M{
				"_id":   "$category",
				"count": bson.M{"$sum": 1},
			},
		},
		{
			"$project": bson.M{
				"name":  "$_id",
				"value": "$count",
				"_id":   0,
			},
		},
	}

	categoryCursor, err := reportCollection.Aggregate(ctx, categoryPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get category analytics"})
		return
	}
	defer categoryCursor.Close(ctx)

	var reportsByCategory []bson.M
	if err := categoryCursor.All(ctx, &reportsByCategory); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode category analytics"})
		return
	}

	// Get reports by status using aggregation
	statusPipeline := []bson.M{
		{
			"$group": bson.M{
				"_id":   "$status",
				"count": bson.M{"$sum": 1},
			},
		},
		{
			"$project": bson.M{
				"name":  "$_id",
				"value": "$count",
				"_id":   0,
			},
		},
	}

	statusCursor, err := reportCollection.Aggregate(ctx, statusPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get status analytics"})
		return
	}
	defer statusCursor.Close(ctx)

	var reportsByStatus []bson.M
	if err := statusCursor.All(ctx, &reportsByStatus); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode status analytics"})
		return
	}

	// Get last 7 days data
	var last7Days []gin.H
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

		nextDate := date.AddDate(0, 0, 1)

		count, err := reportCollection.CountDocuments(ctx, bson.M{
			"createdAt": bson.M{
				"$gte": date,
				"$lt":  nextDate,
			},
		})
		if err != nil {
			count = 0
		}

		last7Days = append(last7Days, gin.H{
			"date":  date.Format("2006-01-02"),
			"count": count,
		})
	}

	// Get total counts
	totalReports, err := reportCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		totalReports = 0
	}

	openReports, err := reportCollection.CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": []string{"pending", "assigned", "progress"}},
	})
	if err != nil {
		openReports = 0
	}

	resolvedReports, err := reportCollection.CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": []string{"completed", "approved"}},
	})
	if err != nil {
		resolvedReports = 0
	}

	// Facility side of the dashboard
	totalFacilities, err := facilityCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		totalFacilities = 0
	}

	activeFacilities, err := facilityCollection.CountDocuments(ctx, bson.M{"status": models.FacilityActive})
	if err != nil {
		activeFacilities = 0
	}

	// Top rated facilities
	findOptions := options.Find().
		SetSort(bson.D{{Key: "averageRating", Value: -1}}).
		SetLimit(5)

	facilityCursor, err := facilityCollection.Find(ctx, bson.M{"reviewCount": bson.M{"$gt": 0}}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve top rated facilities"})
		return
	}
	defer facilityCursor.Close(ctx)

	var topRatedFacilities []models.Facility
	if err := facilityCursor.All(ctx, &topRatedFacilities); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode facilities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reportsByCategory":  reportsByCategory,
		"reportsByStatus":    reportsByStatus,
		"last7Days":          last7Days,
		"totalReports":       totalReports,
		"openReports":        openReports,
		"resolvedReports":    resolvedReports,
		"totalFacilities":    totalFacilities,
		"activeFacilities":   activeFacilities,
		"topRatedFacilities": topRatedFacilities,
	})
}
