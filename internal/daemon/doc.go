// Package daemon hosts the long-running process: a file-lock singleton
// guard, the pipeline worker pool, and the HTTP API that exposes
// submissions, job status, set listings, and mesh downloads.
package daemon
