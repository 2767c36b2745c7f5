package databases

// go generate: mockery --name SchedulerLockDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const lockCollectionName = "scheduler_locks"

// SchedulerLockDatabase contains the methods for the distributed scheduler lock.
// The lock guarantees at most one notification tick in flight across instances.
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, name, instanceID string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, instanceID string) error
}

type schedulerLockDatabase struct {
	db DatabaseHelper
}

// NewSchedulerLockDatabase initializes a new instance of scheduler lock database with the provided db connection
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{
		db: db,
	}
}

// TryAcquireLock attempts to take the named lock for instanceID. A held,
// unexpired lock makes the upsert collide on _id and the attempt reports busy.
func (sl *schedulerLockDatabase) TryAcquireLock(ctx context.Context, name, instanceID string, ttl time.Duration) (bool, error) {
	now := time.Now()
	filter := bson.M{
		"_id":       name,
		"expiresAt": bson.M{"$lt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"owner":      instanceID,
			"acquiredAt": now,
			"expiresAt":  now.Add(ttl),
		},
	}
	opts := options.Update().SetUpsert(true)
	res, err := sl.db.Collection(lockCollectionName).UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return res.MatchedCount == 1 || res.UpsertedCount == 1, nil
}

// ReleaseLock frees the named lock if this instance still owns it
func (sl *schedulerLockDatabase) ReleaseLock(ctx context.Context, name, instanceID string) error {
	return sl.db.Collection(lockCollectionName).DeleteOne(ctx, bson.M{
		"_id":   name,
		"owner": instanceID,
	})
}
