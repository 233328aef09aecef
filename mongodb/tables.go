package mongodb

const (
	tbSessions string = "Sessions"
)

// MgoAccountRef selected account
type MgoAccountRef struct {
	Chain    string `bson:"chain"`
	Address  string `bson:"address"`
	Provider string `bson:"provider"`
}

// MgoSession persisted wallet session
type MgoSession struct {
	Key       string                    `bson:"_id"` // identifier
	Providers []string                  `bson:"providers"`
	Selected  map[string]*MgoAccountRef `bson:"selected"`
	Timestamp int64                     `bson:"timestamp"`
}
