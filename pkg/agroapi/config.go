package agroapi

import (
	"net"
	"strings"
)

const (
	// LocalBaseURL is the development backend, used when the dashboard itself
	// runs on a local host name.
	LocalBaseURL = "http://localhost:8000/api/v1"
	// ProductionBaseURL is the fixed production backend.
	ProductionBaseURL = "https://api.agenteagro.com.br/api/v1"
)

// ResolveBaseURL decides which backend the client talks to. The decision is
// made once at client construction and never changes at runtime:
//
//  1. an explicit endpoint wins;
//  2. a dashboard served from a local host name targets the local backend;
//  3. anything else targets production.
func ResolveBaseURL(explicit, serveHost string) string {
	if explicit != "" {
		return strings.TrimSuffix(explicit, "/")
	}
	if isLocalHost(serveHost) {
		return LocalBaseURL
	}
	return ProductionBaseURL
}

func isLocalHost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	switch strings.ToLower(host) {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0":
		return true
	}
	return false
}
