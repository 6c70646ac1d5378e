// Package hash provides helpers for hashing and verifying secrets.
//
// Typical usage is for one-time codes and tokens: store only the keyed
// digest, then verify user input by recomputing the digest and comparing it in
// constant time. Implementations (like HMAC-SHA-256) live in this package
// behind a small interface.
package hash
