// Package redisconn turns a session server URL into a verified go-redis client.
//
// The URL is a regular redis:// or rediss:// URL with one extra path segment
// naming the session namespace:
//
//	redis://:password@cache.internal:6379/2/shop:session
//
// selects database 2 and returns "shop:session" as the namespace to put in
// goSession.Config. Without the segment the namespace is empty and the
// caller's configured namespace applies.
//
// Connect pings the server before returning, retrying with exponential
// backoff, so a misconfigured deployment fails at startup rather than on the
// first request.
package redisconn
