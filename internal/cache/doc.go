// Package cache stores fetched schedule pages so repeated crawls within the
// TTL do not hit the upstream site. It has an in-memory and a Redis backend.
package cache
