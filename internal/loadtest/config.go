package loadtest

import "time"

// Config holds configuration for the leaderboard load test.
type Config struct {
	BaseURL    string        // Base URL of the service
	Requests   int           // Total number of read requests to issue
	Rate       int           // Requests per second across all workers
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	PageSize   int           // Page size used for listing requests
	MutateEach int           // Issue one mutation batch per this many reads (0 disables)
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// Stats holds load test statistics.
type Stats struct {
	RequestsSent    int
	ListRequests    int
	SearchRequests  int
	RankRequests    int
	MutateRequests  int
	Failed          int
	ScoresMutated   int
	PagesVerified   int
	SearchesChecked int
	RanksChecked    int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
