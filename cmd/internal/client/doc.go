// Package client is the HTTP client and command-line front end for authd.
//
// Client talks to the JSON auth API; Run implements the authctl subcommands
// (signup, signin, delete) on top of it.
package client
