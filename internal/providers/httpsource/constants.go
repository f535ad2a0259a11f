package httpsource

import "time"

const (
	providerName       = "http"
	defaultURL         = "http://127.0.0.1:8089/plugin.json"
	defaultHTTPTimeout = 5 * time.Second
	maxErrorBody       = 512
	cacheBustParam     = "_"
)
