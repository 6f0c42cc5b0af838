package services

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"geofencing-app/geofencing-service/internal/models"
)

// EventLogger writes notification audit records to Mongo. Purely
// observational: delivery never waits on it and never fails because of it.
type EventLogger struct {
	col *mongo.Collection
}

func NewEventLogger(db *mongo.Database) *EventLogger {
	return &EventLogger{col: db.Collection("notification_logs")}
}

func (l *EventLogger) LogNotification(ctx context.Context, entry models.NotificationLog) error {
	_, err := l.col.InsertOne(ctx, entry)
	return err
}
