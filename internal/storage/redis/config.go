package redis

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// Player-creation feed settings
	FeedGroup    string
	FeedConsumer string
	FeedMaxLen   int64
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		FeedGroup:    "welcome",
		FeedConsumer: "welcome-1",
		FeedMaxLen:   10000,
	}
}
