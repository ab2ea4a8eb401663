// Package mocks provides centralized mock implementations for testing.
//
// Each mock mirrors one interface from the store or auth packages and
// exposes a function field per method. When a function field is nil the
// mock falls back to a simple in-memory default, so most tests only
// override the one or two methods they care about.
package mocks
