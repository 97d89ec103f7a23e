package client

import "net/http"

// TokenSource is the single credential read the transport performs per
// request.
type TokenSource interface {
	Token() (string, bool)
}

// BearerTransport is an http.RoundTripper that attaches the current session
// token as a bearer Authorization header. Requests that already carry an
// Authorization header pass through untouched, and requests with no stored
// token go out unauthenticated for the server to reject. The transport
// never logs in or refreshes.
type BearerTransport struct {
	// Base performs the actual request. Nil means http.DefaultTransport.
	Base http.RoundTripper

	// Credentials supplies the token. One synchronous read per request.
	Credentials TokenSource
}

// NewBearerTransport wraps base with bearer-token attachment from creds.
func NewBearerTransport(base http.RoundTripper, creds TokenSource) *BearerTransport {
	return &BearerTransport{Base: base, Credentials: creds}
}

var _ http.RoundTripper = (*BearerTransport)(nil)

// RoundTrip implements http.RoundTripper.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if req.Header.Get("Authorization") != "" {
		return base.RoundTrip(req)
	}

	token, ok := t.Credentials.Token()
	if !ok {
		return base.RoundTrip(req)
	}

	// RoundTrippers must not mutate the caller's request.
	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+token)

	return base.RoundTrip(authed)
}
