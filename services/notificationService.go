package services

import (
	"context"
	"log"
	"time"

	"fixitnow-be/models"
	"fixitnow-be/realtime"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type NotificationService struct {
	notifications *mongo.Collection
	users         *mongo.Collection
}

func NewNotificationService(notifications, users *mongo.Collection) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
	}
}

// Notify stores a notification for one user and pushes it over the hub.
func (ns *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID, title, message string, typ models.NotificationType) error {
	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		Read:      false,
		CreatedAt: time.Now(),
	}

	if _, err := ns.notifications.InsertOne(ctx, notification); err != nil {
		return err
	}

	// hub is initialized in main before the server accepts requests
	if realtime.GlobalHub != nil {
		realtime.GlobalHub.SendToUsers([]string{userID.Hex()}, map[string]interface{}{
			"type":         "notification",
			"notification": notification,
		})
	}
	return nil
}

// NotifyByEmail resolves a user by email before notifying. Reports identify
// their reporter by email, not id; an email without an account is skipped.
func (ns *NotificationService) NotifyByEmail(ctx context.Context, email, title, message string, typ models.NotificationType) error {
	var user models.User
	err := ns.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return err
	}
	return ns.Notify(ctx, user.ID, title, message, typ)
}

// NotifyAdmins fans a notification out to every admin account.
func (ns *NotificationService) NotifyAdmins(ctx context.Context, title, message string, typ models.NotificationType) error {
	cursor, err := ns.users.Find(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var admins []models.User
	if err := cursor.All(ctx, &admins); err != nil {
		return err
	}

	for _, admin := range admins {
		if err := ns.Notify(ctx, admin.ID, title, message, typ); err != nil {
			log.Printf("Failed to notify admin %s: %v", admin.ID.Hex(), err)
		}
	}
	return nil
}
