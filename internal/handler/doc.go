// Package handler exposes teams, feed publishing and metrics over HTTP with
// gin. Each handler owns a route group and installs it with Register.
package handler
