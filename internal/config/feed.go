package config

// FeedConfig controls how the NHL feed is reached.
type FeedConfig struct {
	Provider    string
	BaseURL     string
	Timeout     Duration
	MaxAttempts int
	Backoff     Duration
	// RequestsPerSecond caps upstream calls; zero or less disables the cap.
	RequestsPerSecond int
}

func loadFeed() FeedConfig {
	return FeedConfig{
		Provider:          envOrDefault(envFeedProvider, defaultFeedProvider),
		BaseURL:           envOrDefault(envFeedBaseURL, defaultFeedBaseURL),
		Timeout:           durationEnvOrDefault(envFeedTimeout, defaultFeedTimeout),
		MaxAttempts:       intEnvOrDefault(envFeedAttempts, defaultFeedAttempts),
		Backoff:           durationEnvOrDefault(envFeedBackoff, defaultFeedBackoff),
		RequestsPerSecond: intEnvOrDefault(envFeedRate, defaultFeedRate),
	}
}
