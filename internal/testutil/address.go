// Package testutil provides helpers shared by this repository's tests.
package testutil

import "github.com/google/uuid"

// UniqueAddress mints a collision-free segment address for a test run,
// namespaced under prefix, so parallel test binaries sharing a single host
// (and therefore a single /dev/shm namespace) never collide.
func UniqueAddress(prefix string) string {
	return "/test/" + prefix + "/" + uuid.NewString()
}
