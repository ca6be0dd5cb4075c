package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quranbot/pkg/logger"
	"quranbot/storage"
)

const (
	usersCollection  = "users"
	statusCollection = "status_checks"
)

type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
	log     logger.ILogger
}

// New connects, pings and makes sure users.user_id is uniquely indexed so
// concurrent upserts cannot create duplicate profiles.
func New(ctx context.Context, url, dbName string, timeout time.Duration, log logger.ILogger) (storage.IStorage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url).SetTimeout(timeout))
	if err != nil {
		log.Error("failed to connect MongoDB", logger.Error(err))
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		log.Error("failed to ping MongoDB", logger.Error(err))
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(dbName)
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(usersCollection).Indexes().CreateOne(pingCtx, indexModel); err != nil {
		log.Error("failed to create users index", logger.Error(err))
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info("MongoDB connected", logger.String("db", dbName))

	return &Store{
		client:  client,
		db:      db,
		timeout: timeout,
		log:     log,
	}, nil
}

func (s *Store) User() storage.IUserStorage {
	return NewUserRepo(s.db.Collection(usersCollection), s.timeout, s.log)
}

func (s *Store) Status() storage.IStatusStorage {
	return NewStatusRepo(s.db.Collection(statusCollection), s.timeout, s.log)
}

func (s *Store) Reset(ctx context.Context) error {
	for _, name := range []string{usersCollection, statusCollection} {
		if _, err := s.db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		s.log.Error("failed to disconnect MongoDB", logger.Error(err))
	}
}
