// Package cli implements the command-line interface for football-ical.
//
// The cli package provides the Cobra-based commands: crawl publishes the
// merged feed, serve runs the HTTP API with the optional scheduled publisher,
// extract reads a single schedule page (text, JSON or iCalendar output, with
// sorting), and teams manages the registered teams. It wires configuration,
// storage, cache, scraper and sink together for each command.
package cli
