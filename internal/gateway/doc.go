// Package gateway is the HTTP client for the download server. Each method maps
// to one endpoint; every failure comes back as an *apperrors.Error so callers
// can decide between showing the server's message and the generic network one.
package gateway
