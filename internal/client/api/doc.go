// Package api exposes the identity and content endpoints as typed methods on
// top of client.Call. Paths are relative to the configured service base URLs.
//
// Create, login, register, password and interaction calls (POST) are sent
// once; reads, updates and deletes go through the retry policy.
package api
