// Package api contains the HTTP handlers and the transfer
// representations exposed at the API boundary. Handlers translate typed
// service failures into status codes; they never leak internal error
// details to clients.
package api
