package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymousSubjectStripsEphemeralPort(t *testing.T) {
	// Two connections from the same host must share one rate-limit subject.
	assert.Equal(t, "203.0.113.9", anonymousSubject("203.0.113.9:54321"))
	assert.Equal(t, "203.0.113.9", anonymousSubject("203.0.113.9:54322"))
	assert.Equal(t, "2001:db8::1", anonymousSubject("[2001:db8::1]:54321"))

	// Values without a port pass through untouched.
	assert.Equal(t, "203.0.113.9", anonymousSubject("203.0.113.9"))
	assert.Equal(t, "unix", anonymousSubject("unix"))
}
