// Package jobs tracks asynchronous set-processing runs in memory.
//
// The registry holds one record per set number behind a mutex and hands out
// value snapshots. Terminal records never change again; restart loses the
// table, which is fine because durable state lives in the metadata store.
package jobs
