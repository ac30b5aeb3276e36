// Package api is a typed HTTP client for the recipebox server.
//
// A Client holds the bearer token returned by Login and attaches it to every
// protected call. Non-2xx answers are returned as *Error carrying the status
// code and the server's message; transport failures wrap ErrUnavailable.
package api
