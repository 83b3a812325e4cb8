// Package api defines the HTTP wire types shared by the daemon's server and
// the CLI's client, plus the resty client itself.
package api
