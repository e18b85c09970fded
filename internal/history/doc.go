// Package history records framepack runs in a SQLite ledger.
//
// Every extract, pack, or combined run gets a row when it starts and is
// finished with its outcome: frame count, bytes appended to the blob, and the
// error classification when it failed. The ledger lives in the state
// directory and is opened in WAL mode so a concurrent `framepack history`
// never blocks a running pack.
package history
