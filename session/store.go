package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/redis/go-redis/v9"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// DefaultStoreKey key of the persisted session
const DefaultStoreKey = "xwallet:session"

// ErrStoreClosed store closed
var ErrStoreClosed = errors.New("session store closed")

// Store durable key value storage of the persisted session.
// Load returns nil without error when nothing was saved.
type Store interface {
	Load(ctx context.Context) (*Persisted, error)
	Save(ctx context.Context, p *Persisted) error
	Close() error
}

func encodePersisted(p *Persisted) ([]byte, error) {
	return json.Marshal(p)
}

func decodePersisted(data []byte) (*Persisted, error) {
	p := &Persisted{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, err
	}
	if p.Selected == nil {
		p.Selected = make(map[tokens.Chain]tokens.AccountRef)
	}
	return p, nil
}

// MemoryStore in process store
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore new memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load impl Store
func (s *MemoryStore) Load(context.Context) (*Persisted, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, nil
	}
	return decodePersisted(s.data)
}

// Save impl Store
func (s *MemoryStore) Save(_ context.Context, p *Persisted) error {
	data, err := encodePersisted(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Close impl Store
func (s *MemoryStore) Close() error { return nil }

// LevelDBStore goleveldb backed store
type LevelDBStore struct {
	db  *leveldb.DB
	key []byte
}

// OpenLevelDBStore open leveldb store at path
func OpenLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, err
	}
	log.Info("open leveldb session store", "path", path)
	return &LevelDBStore{db: db, key: []byte(DefaultStoreKey)}, nil
}

// NewMemLevelDBStore leveldb store on memory storage
func NewMemLevelDBStore() (*LevelDBStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &LevelDBStore{db: db, key: []byte(DefaultStoreKey)}, nil
}

// Load impl Store
func (s *LevelDBStore) Load(context.Context) (*Persisted, error) {
	data, err := s.db.Get(s.key, nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return nil, nil
	case errors.Is(err, leveldb.ErrClosed):
		return nil, ErrStoreClosed
	case err != nil:
		return nil, err
	}
	return decodePersisted(data)
}

// Save impl Store
func (s *LevelDBStore) Save(_ context.Context, p *Persisted) error {
	data, err := encodePersisted(p)
	if err != nil {
		return err
	}
	err = s.db.Put(s.key, data, &opt.WriteOptions{Sync: true})
	if errors.Is(err, leveldb.ErrClosed) {
		return ErrStoreClosed
	}
	return err
}

// Close impl Store
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

// RedisStore redis backed store
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connect redis store
func NewRedisStore(ctx context.Context, opts *redis.Options, key string) (*RedisStore, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	if key == "" {
		key = DefaultStoreKey
	}
	log.Info("connect redis session store", "addr", opts.Addr, "db", opts.DB, "key", key)
	return &RedisStore{client: client, key: key}, nil
}

// Load impl Store
func (s *RedisStore) Load(ctx context.Context) (*Persisted, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodePersisted(data)
}

// Save impl Store
func (s *RedisStore) Save(ctx context.Context, p *Persisted) error {
	data, err := encodePersisted(p)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}

// Close impl Store
func (s *RedisStore) Close() error {
	return s.client.Close()
}
