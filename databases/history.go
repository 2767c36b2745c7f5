package databases

// go generate: mockery --name NotificationHistoryDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/airaware/airaware-api/models"
)

const historyCollectionName = "notification_history"

// NotificationHistoryDatabase contains the methods to use with the notification history database
type NotificationHistoryDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.NotificationHistory, error)
	InsertOne(context.Context, models.NotificationHistory) (InsertOneResultHelper, error)
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
}

type notificationHistoryDatabase struct {
	db DatabaseHelper
}

// NewNotificationHistoryDatabase initializes a new instance of notification history database with the provided db connection
func NewNotificationHistoryDatabase(db DatabaseHelper) NotificationHistoryDatabase {
	return &notificationHistoryDatabase{
		db: db,
	}
}

func (nh *notificationHistoryDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.NotificationHistory, error) {
	var entries []models.NotificationHistory
	cur, err := nh.db.Collection(historyCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.All(ctx, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (nh *notificationHistoryDatabase) InsertOne(ctx context.Context, entry models.NotificationHistory) (InsertOneResultHelper, error) {
	res, err := nh.db.Collection(historyCollectionName).InsertOne(ctx, entry)
	return res, err
}

func (nh *notificationHistoryDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return nh.db.Collection(historyCollectionName).UpdateOne(ctx, filter, update, opts...)
}

func (nh *notificationHistoryDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return nh.db.Collection(historyCollectionName).CountDocuments(ctx, filter, opts...)
}
