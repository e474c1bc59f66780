package ws

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginChecker(t *testing.T) {
	req := func(origin string) bool {
		r := httptest.NewRequest("GET", "/ws/sync", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return originChecker([]string{" https://jobs.example.kr/ ", "http://localhost:3000"})(r)
	}

	assert.True(t, req("https://jobs.example.kr"))
	assert.True(t, req("HTTP://LOCALHOST:3000"))
	assert.True(t, req(""))
	assert.False(t, req("https://evil.example.com"))

	open := originChecker(nil)
	r := httptest.NewRequest("GET", "/ws/sync", nil)
	r.Header.Set("Origin", "https://anything.example")
	assert.True(t, open(r))
}
