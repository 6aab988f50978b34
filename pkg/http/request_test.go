package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	pkghttp "github.com/motofleet/admin-api/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestExtractClientIP_UsesRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.RemoteAddr = "203.0.113.7:51234"

	ip := pkghttp.ExtractClientIP(req, nil)
	assert.Equal(t, "203.0.113.7", ip)
}

func TestExtractClientIP_IgnoresForwardedHeaderFromUntrustedSource(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")

	config := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}
	ip := pkghttp.ExtractClientIP(req, config)

	// Spoofed header from an untrusted peer must not win
	assert.Equal(t, "203.0.113.7", ip)
}

func TestExtractClientIP_HonorsForwardedHeaderFromTrustedProxy(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.RemoteAddr = "10.1.2.3:443"
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.1.2.3")

	config := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}
	ip := pkghttp.ExtractClientIP(req, config)

	assert.Equal(t, "198.51.100.1", ip)
}

func TestExtractClientIP_FallsBackToRealIPHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.RemoteAddr = "10.1.2.3:443"
	req.Header.Set("X-Real-IP", "198.51.100.9")

	config := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}
	ip := pkghttp.ExtractClientIP(req, config)

	assert.Equal(t, "198.51.100.9", ip)
}

func TestExtractClientIP_SkipsInvalidForwardedEntries(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.RemoteAddr = "10.1.2.3:443"
	req.Header.Set("X-Forwarded-For", "garbage, 198.51.100.2")

	config := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}
	ip := pkghttp.ExtractClientIP(req, config)

	assert.Equal(t, "198.51.100.2", ip)
}
