// Package auth provides the API key middleware for the HTTP server.
//
// Read endpoints stay open so dashboards can poll without credentials;
// only mutating requests (POST, PUT, DELETE) are checked.
package auth
