package config

import "time"

const (
	SourceFixture = "fixture"
	SourceHTTP    = "http"
	SourceFile    = "file"

	defaultPort          = "8089"
	defaultPollInterval  = time.Second
	defaultFrameInterval = 16 * time.Millisecond
	defaultMetricsPort   = "9090"
	defaultServiceName   = "scoreboard-overlay"
)
