// Package api provides the local HTTP bridge over the news data layer.
// It uses the Huma framework on a chi router for OpenAPI documentation,
// request validation and a clean handler interface.
//
// # Architecture
//
// - server.go: router, middleware chain and route registration
// - handlers/: news, library (favorites, history, theme) and cache handlers
// - dto/: request and response bodies plus domain mappers
// - middleware/: request ids, request logging, per-client rate limiting
//
// Every handler drives the single session owned by a newshub.Client, so
// the bridge and any other collaborator of the same client observe one
// state store.
//
// # Documentation
//
// - OpenAPI document at /openapi.json
// - Interactive docs at /docs
//
// # Rate limiting
//
// Limiting is per client address and only applies while the
// rate_limit_enabled feature flag is on.
package api
