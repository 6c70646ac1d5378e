// Package otp implements the lifecycle of short-lived one-time codes keyed
// by mobile number.
//
// The Manager issues codes (generate, hash, store with a TTL) and verifies
// submitted codes against the stored digest, counting failed attempts and
// locking out a mobile number after too many of them. All mutable state
// lives in a Store; the Manager itself is stateless and safe for concurrent
// use. Domain outcomes (invalid, expired, locked, missing) are returned as
// values, never as errors; errors are reserved for infrastructure failures
// such as an unreachable store.
package otp
