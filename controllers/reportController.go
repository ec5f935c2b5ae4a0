package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fixitnow-be/config"
	"fixitnow-be/lifecycle"
	"fixitnow-be/models"
	"fixitnow-be/realtime"
	"fixitnow-be/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var reportCollection *mongo.Collection = config.GetCollection("reports")
var userCollection *mongo.Collection = config.GetCollection("users")
var notificationCollection *mongo.Collection = config.GetCollection("notifications")

var notifier = services.NewNotificationService(notificationCollection, userCollection)

// CreateReport handles the submission of a new damage report
func CreateReport(c *gin.Context) {
	emailVal, exists := c.Get("user_email")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	reporterEmail, ok := emailVal.(string)
	if !ok || reporterEmail == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Title         string  `json:"title" binding:"required,max=200"`
		Description   string  `json:"description" binding:"required,max=1000"`
		Location      string  `json:"location" binding:"required,max=200"`
		Category      string  `json:"category" binding:"required"`
		Priority      string  `json:"priority" binding:"required"`
		ReporterPhone *string `json:"reporterPhone,omitempty"`
		ImageURL      *string `json:"imageUrl,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidCategory(input.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}
	if !models.ValidPriority(input.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}

	report := models.Report{
		ID:            primitive.NewObjectID(),
		Title:         input.Title,
		Description:   input.Description,
		Location:      input.Location,
		Category:      models.ReportCategory(input.Category),
		Priority:      models.ReportPriority(input.Priority),
		Status:        string(lifecycle.StatusPending),
		ReporterEmail: reporterEmail,
		ReporterPhone: input.ReporterPhone,
		ImageURL:      input.ImageURL,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := reportCollection.InsertOne(ctx, report)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	notifier.NotifyAdmins(ctx, "New damage report",
		fmt.Sprintf("%q was reported at %s.", report.Title, report.Location), models.NotifyInfo)
	broadcastReport(realtime.ReportCreated, report)

	c.JSON(http.StatusCreated, report)
}

// GetAllReports handles retrieving all reports with filtering, search and pagination
func GetAllReports(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	category := c.Query("category")
	status := c.Query("status")
	priority := c.Query("priority")
	search := c.Query("search")
	sort := c.DefaultQuery("sort", "newest")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := bson.M{}

	if category != "" && category != "all" {
		filter["category"] = category
	}

	if status != "" && status != "all" {
		filter["status"] = status
	}

	if priority != "" && priority != "all" {
		filter["priority"] = priority
	}

	if search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
			{"location": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	skip := (page - 1) * limit

	var sortOptions bson.D
	switch sort {
	case "oldest":
		sortOptions = bson.D{{Key: "createdAt", Value: 1}}
	case "newest":
		fallthrough
	default:
		sortOptions = bson.D{{Key: "createdAt", Value: -1}}
	}

	totalCount, err := reportCollection.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count reports"})
		return
	}

	findOptions := options.Find().
		SetSort(sortOptions).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := reportCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reports"})
		return
	}
	defer cursor.Close(ctx)

	var reports []models.Report
	if err := cursor.All(ctx, &reports); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode reports"})
		return
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, gin.H{
		"reports":      reports,
		"totalReports": totalCount,
		"totalPages":   totalPages,
		"currentPage":  page,
	})
}

// GetMyReports retrieves the reports submitted by the calling user
func GetMyReports(c *gin.Context) {
	emailVal, exists := c.Get("user_email")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := reportCollection.Find(ctx, bson.M{"reporterEmail": emailVal}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reports"})
		return
	}
	defer cursor.Close(ctx)

	var reports []models.Report
	if err := cursor.All(ctx, &reports); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode reports"})
		return
	}

	c.JSON(http.StatusOK, reports)
}

// GetAssignedReports retrieves the calling technician's work queue
func GetAssignedReports(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	technicianID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	cursor, err := reportCollection.Find(ctx, bson.M{"assignedTo": technicianID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reports"})
		return
	}
	defer cursor.Close(ctx)

	var reports []models.Report
	if err := cursor.All(ctx, &reports); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode reports"})
		return
	}

	c.JSON(http.StatusOK, reports)
}

// GetReport retrieves a report by its ID
func GetReport(c *gin.Context) {
	idParam := c.Param("id")
	reportID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var report models.Report
	err = reportCollection.FindOne(ctx, bson.M{"_id": reportID}).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve report"})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// UpdateReportStatus moves a report through its lifecycle. The transition is
// evaluated by the lifecycle package and applied conditionally on the status
// the report had when it was read, so concurrent updates surface as conflicts
// instead of silently overwriting each other.
func UpdateReportStatus(c *gin.Context) {
	idParam := c.Param("id")
	reportID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	actorID, role, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !lifecycle.ValidStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var report models.Report
	err = reportCollection.FindOne(ctx, bson.M{"_id": reportID}).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve report"})
		}
		return
	}

	mutation, err := lifecycle.RequestTransition(
		snapshotOf(report),
		lifecycle.Status(input.Status),
		lifecycle.Role(role),
		actorID,
		input.Notes,
	)
	if err != nil {
		c.JSON(lifecycleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	if err := applyMutation(ctx, c, report, mutation); err != nil {
		return
	}

	notifyStatusChange(ctx, report, lifecycle.Status(input.Status), input.Notes)
	broadcastUpdated(ctx, reportID)

	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully", "status": input.Status})
}

// AssignReport hands a pending report to a technician. Admin only (enforced
// again by the lifecycle table on top of the route guard).
func AssignReport(c *gin.Context) {
	idParam := c.Param("id")
	reportID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	_, role, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		TechnicianID string `json:"technician_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	technicianID, err := primitive.ObjectIDFromHex(input.TechnicianID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid technician ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var technician models.User
	err = userCollection.FindOne(ctx, bson.M{"_id": technicianID}).Decode(&technician)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Technician not found"})
		return
	}
	if technician.Role != models.RoleTechnician {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is not a technician"})
		return
	}

	var report models.Report
	err = reportCollection.FindOne(ctx, bson.M{"_id": reportID}).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve report"})
		}
		return
	}

	mutation, err := lifecycle.AssignTechnician(snapshotOf(report), input.TechnicianID, lifecycle.Role(role))
	if err != nil {
		c.JSON(lifecycleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	if err := applyMutation(ctx, c, report, mutation); err != nil {
		return
	}

	notifier.Notify(ctx, technicianID, "New assignment",
		fmt.Sprintf("You have been assigned to %q at %s.", report.Title, report.Location), models.NotifyInfo)
	broadcastUpdated(ctx, reportID)

	c.JSON(http.StatusOK, gin.H{"message": "Technician assigned successfully"})
}

// UnassignReport reverts an assignment and returns the report to the pending pool
func UnassignReport(c *gin.Context) {
	idParam := c.Param("id")
	reportID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	_, role, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var report models.Report
	err = reportCollection.FindOne(ctx, bson.M{"_id": reportID}).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve report"})
		}
		return
	}

	mutation, err := lifecycle.UnassignTechnician(snapshotOf(report), lifecycle.Role(role))
	if err != nil {
		c.JSON(lifecycleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	if err := applyMutation(ctx, c, report, mutation); err != nil {
		return
	}

	if report.AssignedTo != nil {
		notifier.Notify(ctx, *report.AssignedTo, "Assignment removed",
			fmt.Sprintf("You are no longer assigned to %q.", report.Title), models.NotifyWarning)
	}
	broadcastUpdated(ctx, reportID)

	c.JSON(http.StatusOK, gin.H{"message": "Technician unassigned successfully"})
}

// snapshotOf converts a stored report into the lifecycle package's view of it
func snapshotOf(report models.Report) lifecycle.Report {
	assignedTo := ""
	if report.AssignedTo != nil {
		assignedTo = report.AssignedTo.Hex()
	}
	return lifecycle.Report{
		ID:         report.ID.Hex(),
		Status:     lifecycle.Status(report.Status),
		AssignedTo: assignedTo,
	}
}

func actorFromContext(c *gin.Context) (actorID, role string, ok bool) {
	idVal, exists := c.Get("user_id")
	if !exists {
		return "", "", false
	}
	roleVal, exists := c.Get("user_role")
	if !exists {
		return "", "", false
	}
	actorID, _ = idVal.(string)
	role, _ = roleVal.(string)
	return actorID, role, actorID != "" && role != ""
}

func lifecycleErrorStatus(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, lifecycle.ErrIllegalTransition):
		return http.StatusBadRequest
	case errors.Is(err, lifecycle.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// applyMutation persists a lifecycle mutation conditionally on the status the
// report had when read. A concurrent transition makes the filter miss, which
// is reported as a conflict for the client to re-read and retry. Writes the
// HTTP response on failure and returns a non-nil error so callers can bail.
func applyMutation(ctx context.Context, c *gin.Context, report models.Report, mutation lifecycle.Mutation) error {
	update := bson.M{}
	for field, value := range mutation {
		switch field {
		case "status":
			update["status"] = string(value.(lifecycle.Status))
		case "updated_at":
			update["updatedAt"] = value
		case "completion_notes":
			update["completionNotes"] = value
		case "assigned_to":
			if value == nil {
				update["assignedTo"] = nil
				continue
			}
			oid, err := primitive.ObjectIDFromHex(value.(string))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee ID"})
				return err
			}
			update["assignedTo"] = oid
		}
	}

	result, err := reportCollection.UpdateOne(ctx,
		bson.M{"_id": report.ID, "status": report.Status},
		bson.M{"$set": update},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update report"})
		return err
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Report was modified concurrently, please retry"})
		return lifecycle.ErrConcurrentModification
	}
	return nil
}

func notifyStatusChange(ctx context.Context, report models.Report, target lifecycle.Status, notes string) {
	typ := models.NotifyInfo
	switch target {
	case lifecycle.StatusCompleted, lifecycle.StatusApproved:
		typ = models.NotifySuccess
	case lifecycle.StatusRejected:
		typ = models.NotifyWarning
	}

	message := fmt.Sprintf("Your report %q is now %s.", report.Title, target)
	if notes != "" {
		message = fmt.Sprintf("%s Notes: %s", message, notes)
	}

	notifier.NotifyByEmail(ctx, report.ReporterEmail, "Report status updated", message, typ)
}

// broadcastUpdated re-reads the report and pushes the fresh document to the
// change feed, so subscribers see the post-mutation state.
func broadcastUpdated(ctx context.Context, reportID primitive.ObjectID) {
	var report models.Report
	if err := reportCollection.FindOne(ctx, bson.M{"_id": reportID}).Decode(&report); err != nil {
		return
	}
	broadcastReport(realtime.ReportUpdated, report)
}

func broadcastReport(eventType realtime.EventType, report models.Report) {
	if realtime.GlobalHub == nil {
		return
	}
	assignedTo := ""
	if report.AssignedTo != nil {
		assignedTo = report.AssignedTo.Hex()
	}
	realtime.GlobalHub.Broadcast(realtime.Event{
		Type:          eventType,
		Report:        report,
		ReporterEmail: report.ReporterEmail,
		AssignedTo:    assignedTo,
	})
}
