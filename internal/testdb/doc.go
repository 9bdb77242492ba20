//go:build integration

// Package testdb provides utilities for database-backed integration tests.
//
// Each test runs in its own transaction, which WithTx rolls back when the
// test completes, so tests can run in parallel against one database without
// seeing each other's rows. GetTestDBWithT skips the test when no database
// URL is configured and applies the embedded migrations once per process.
package testdb
