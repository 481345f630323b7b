package customHttpClient

import (
	"net/http"

	"github.com/akolanti/ragdocs/internal/config"
)

// One pooled transport shared by every upstream provider client so repeated
// embedding and completion calls reuse connections.
var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var sharedClient = &http.Client{Transport: customTransport}

func SharedClient() *http.Client {
	return sharedClient
}
