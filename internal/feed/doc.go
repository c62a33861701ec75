// Package feed builds the published calendar: it fetches every enabled team's
// schedule page, merges the fixtures and stores the encoded feed.
//
// One team failing never stops the others. A feed is only overwritten when at
// least one team succeeded, so a source outage leaves the last good calendar
// in place.
package feed
