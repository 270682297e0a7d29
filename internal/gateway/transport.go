package gateway

import (
	"fmt"
	"net/http"
	"runtime"
)

type userAgentTransport struct {
	agent string
	rt    http.RoundTripper
}

func (u *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r2 := req.Clone(req.Context())
	r2.Header.Set("User-Agent", u.agent)
	return u.rt.RoundTrip(r2)
}

// UserAgent builds the User-Agent header value for version.
func UserAgent(version string) string {
	return fmt.Sprintf("agentdeck/%s (%s; %s)", version, runtime.GOOS, runtime.GOARCH)
}

// NewHTTPClient returns an http.Client that stamps every request with
// userAgent. No timeout is set; the backend decides how long a turn takes.
func NewHTTPClient(userAgent string) *http.Client {
	return &http.Client{
		Transport: &userAgentTransport{
			agent: userAgent,
			rt:    http.DefaultTransport,
		},
	}
}

// withUserAgent returns a copy of hc whose transport sets userAgent.
func withUserAgent(hc *http.Client, userAgent string) *http.Client {
	rt := hc.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	cp := *hc
	cp.Transport = &userAgentTransport{agent: userAgent, rt: rt}
	return &cp
}
