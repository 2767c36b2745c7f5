package databases

// go generate: mockery --name NotificationPreferenceDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/airaware/airaware-api/models"
)

const preferenceCollectionName = "notification_preferences"

// NotificationPreferenceDatabase contains the methods to use with the notification preferences database
type NotificationPreferenceDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.NotificationPreference, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.NotificationPreference, error)
	InsertOne(context.Context, models.NotificationPreference) (InsertOneResultHelper, error)
	FindOneAndUpdate(context.Context, interface{}, interface{}, ...*options.FindOneAndUpdateOptions) (*models.NotificationPreference, error)
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
}

type notificationPreferenceDatabase struct {
	db DatabaseHelper
}

// NewNotificationPreferenceDatabase initializes a new instance of notification preference database with the provided db connection
func NewNotificationPreferenceDatabase(db DatabaseHelper) NotificationPreferenceDatabase {
	return &notificationPreferenceDatabase{
		db: db,
	}
}

func (np *notificationPreferenceDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.NotificationPreference, error) {
	pref := &models.NotificationPreference{}
	err := np.db.Collection(preferenceCollectionName).FindOne(ctx, filter, opts...).Decode(pref)
	if err != nil {
		return nil, err
	}
	return pref, nil
}

func (np *notificationPreferenceDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.NotificationPreference, error) {
	var prefs []models.NotificationPreference
	cur, err := np.db.Collection(preferenceCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.All(ctx, &prefs)
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

func (np *notificationPreferenceDatabase) InsertOne(ctx context.Context, pref models.NotificationPreference) (InsertOneResultHelper, error) {
	res, err := np.db.Collection(preferenceCollectionName).InsertOne(ctx, pref)
	return res, err
}

func (np *notificationPreferenceDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.NotificationPreference, error) {
	pref := &models.NotificationPreference{}
	err := np.db.Collection(preferenceCollectionName).FindOneAndUpdate(ctx, filter, update, opts...).Decode(pref)
	if err != nil {
		return nil, err
	}
	return pref, nil
}

func (np *notificationPreferenceDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return np.db.Collection(preferenceCollectionName).UpdateOne(ctx, filter, update, opts...)
}

func (np *notificationPreferenceDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return np.db.Collection(preferenceCollectionName).CountDocuments(ctx, filter, opts...)
}
