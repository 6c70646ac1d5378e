// Package sms defines the contracts for sending text messages.
//
// The main purpose is to keep the rest of the application independent from a
// specific SMS gateway. Use cases work with the Sender interface and Message
// payload; vendor integrations implement Sender elsewhere. The log sender is
// the development default and the noop sender disables delivery entirely.
package sms
