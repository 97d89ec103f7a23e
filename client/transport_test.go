package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken struct {
	token string
	ok    bool
}

func (s staticToken) Token() (string, bool) { return s.token, s.ok }

func newRecordingServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()

	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
	}))
	t.Cleanup(server.Close)
	return server, &seen
}

func TestBearerTransportAttachesToken(t *testing.T) {
	server, seen := newRecordingServer(t)

	httpClient := &http.Client{Transport: NewBearerTransport(nil, staticToken{token: "T", ok: true})}

	resp, err := httpClient.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, *seen, 1)
	assert.Equal(t, "Bearer T", (*seen)[0])
}

func TestBearerTransportKeepsExplicitHeader(t *testing.T) {
	server, seen := newRecordingServer(t)

	httpClient := &http.Client{Transport: NewBearerTransport(nil, staticToken{token: "T", ok: true})}

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer explicit")

	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, *seen, 1)
	assert.Equal(t, "Bearer explicit", (*seen)[0])
}

func TestBearerTransportNoTokenPassesThrough(t *testing.T) {
	server, seen := newRecordingServer(t)

	httpClient := &http.Client{Transport: NewBearerTransport(nil, staticToken{})}

	resp, err := httpClient.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, *seen, 1)
	assert.Empty(t, (*seen)[0])
}

func TestBearerTransportDoesNotMutateOriginalRequest(t *testing.T) {
	server, _ := newRecordingServer(t)

	transport := NewBearerTransport(nil, staticToken{token: "T", ok: true})

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestBearerTransportWithCredentialStore(t *testing.T) {
	server, seen := newRecordingServer(t)

	store, err := NewCredentialStore(NewMemoryStorage())
	require.NoError(t, err)
	require.NoError(t, store.SaveAuth("T", 3600, nil))

	httpClient := &http.Client{Transport: NewBearerTransport(nil, store)}

	resp, err := httpClient.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, *seen, 1)
	assert.Equal(t, "Bearer T", (*seen)[0])
}
