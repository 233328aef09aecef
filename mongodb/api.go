// Package mongodb session store backed by mongodb.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anyswap/CrossChain-Wallet/common"
	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/session"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// mongodb errors
var (
	ErrItemNotFound = errors.New("mongodb: item not found")
	ErrItemIsDup    = errors.New("mongodb: duplicate key")
)

func mgoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrItemNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrItemIsDup
	default:
		return err
	}
}

// Store session store
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	key    string
}

var _ session.Store = (*Store)(nil)

// Open connect mongodb and return the session store of appName
func Open(ctx context.Context, appName, dbURL, dbName, userName, password string) (*Store, error) {
	opts := options.Client().ApplyURI(fmt.Sprintf("mongodb://%v", dbURL)).SetAppName(appName)
	if userName != "" || password != "" {
		opts.SetAuth(options.Credential{
			AuthSource: dbName,
			Username:   userName,
			Password:   password,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info("connect mongodb success", "dbURL", dbURL, "dbName", dbName)
	return &Store{
		client: client,
		coll:   initCollections(ctx, client.Database(dbName)),
		key:    appName,
	}, nil
}

// Load impl session.Store
func (s *Store) Load(ctx context.Context) (*session.Persisted, error) {
	result := &MgoSession{}
	err := mgoError(s.coll.FindOne(ctx, bson.M{"_id": s.key}).Decode(result))
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ConvertToSession(result), nil
}

// Save impl session.Store
func (s *Store) Save(ctx context.Context, p *session.Persisted) error {
	ms := ConvertFromSession(s.key, p, common.NowMilli())
	opts := options.Replace().SetUpsert(true)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.key}, ms, opts)
	if err != nil {
		log.Error("mongodb save session failed", "key", s.key, "err", err)
	}
	return mgoError(err)
}

// Close impl session.Store
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}
