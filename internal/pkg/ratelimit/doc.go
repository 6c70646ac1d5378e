// Package ratelimit provides a small fixed-window rate limiter backed by
// Redis.
//
// It caps how often one-time codes can be requested per mobile number. This
// is a coarser, issuance-side guard and is independent of the verification
// attempt lockout inside the otp package.
package ratelimit
