// Package store provides file-based persistence for the account registry.
//
// It contains the concrete implementation of domain.AccountStore, serialising
// records as JSON under the configured home directory. All methods are
// concurrency-safe via internal locking.
package store
