// Package service implements the application's business operations over
// the store interfaces. Services surface typed errors to the API
// boundary and never translate them to transport concerns themselves.
package service
