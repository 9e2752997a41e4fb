// Package ws models a message received over a socket connection.
//
// A Message is the socket counterpart of http.Response: the transport fills
// in the status and the raw received text, and extraction works on it
// without any connection being open.
package ws
