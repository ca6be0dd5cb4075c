package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quranbot/pkg/logger"
	"quranbot/pkg/models"
	"quranbot/storage"
)

type userRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
	log     logger.ILogger
}

func NewUserRepo(coll *mongo.Collection, timeout time.Duration, log logger.ILogger) storage.IUserStorage {
	return &userRepo{coll: coll, timeout: timeout, log: log}
}

func (r *userRepo) Upsert(ctx context.Context, profile *models.UserProfile) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"user_id": profile.UserID}
	update := bson.M{
		"$set": bson.M{
			"username":  profile.Username,
			"full_name": profile.FullName,
			"language":  profile.Language,
		},
		"$setOnInsert": bson.M{"created_at": profile.CreatedAt},
	}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		r.log.Error("failed to upsert user", logger.String("user_id", profile.UserID), logger.Error(err))
		return err
	}
	return nil
}

func (r *userRepo) SetLanguage(ctx context.Context, userID, lang string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": bson.M{"language": lang}})
	if err != nil {
		r.log.Error("failed to update user language", logger.String("user_id", userID), logger.Error(err))
		return err
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *userRepo) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user models.UserProfile
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		r.log.Error("failed to get user", logger.String("user_id", userID), logger.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetAll(ctx context.Context) ([]*models.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	users := []*models.UserProfile{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
