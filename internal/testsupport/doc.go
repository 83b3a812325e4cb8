// Package testsupport provides fixtures shared across package tests:
// temp-rooted configurations, colors tables, and placeholder part sources.
package testsupport
