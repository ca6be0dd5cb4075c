package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quranbot/pkg/logger"
	"quranbot/pkg/models"
	"quranbot/storage"
)

type statusRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
	log     logger.ILogger
}

func NewStatusRepo(coll *mongo.Collection, timeout time.Duration, log logger.ILogger) storage.IStatusStorage {
	return &statusRepo{coll: coll, timeout: timeout, log: log}
}

func (r *statusRepo) Create(ctx context.Context, check *models.StatusCheck) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, check); err != nil {
		r.log.Error("failed to insert status check", logger.Error(err))
		return err
	}
	return nil
}

func (r *statusRepo) GetAll(ctx context.Context, limit int) ([]*models.StatusCheck, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	checks := []*models.StatusCheck{}
	if err := cur.All(ctx, &checks); err != nil {
		return nil, err
	}
	return checks, nil
}
