package request

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_ParsesJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"hello","count":2}`))
	}))
	defer server.Close()

	result, err := Do(Params{URL: server.URL + "/test"})

	require.NoError(t, err)
	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, map[string]any{"message": "hello", "count": float64(2)}, result.Value)
	assert.Equal(t, "hello", result.Get("message").String())
}

func TestDo_PostWritesSerializedData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"a":1}`, string(body))
		_, _ = w.Write([]byte(`{"id":123}`))
	}))
	defer server.Close()

	result, err := Post(server.URL, map[string]any{"a": 1}, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(123), result.Get("id").Int())
}

func TestDo_GetIgnoresData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := Do(Params{URL: server.URL, Data: map[string]any{"a": 1}})
	require.NoError(t, err)
}

func TestDo_SuppressedDefaultHeaderIsNotSent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["Accept"]
		assert.False(t, present, "suppressed Accept header should not be sent")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := Do(Params{
		URL:     server.URL,
		Headers: map[string]*string{"Accept": nil},
	})
	require.NoError(t, err)
}

func TestDo_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := Do(Params{URL: server.URL + "/missing"})

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 404, serr.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestDo_StatusErrorWinsOverStreamMode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := Do(Params{URL: server.URL, ReturnStream: true})

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 404, serr.StatusCode)
}

func TestDo_RedirectIsNotFollowed(t *testing.T) {
	var finalHits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/final" {
			finalHits++
			_, _ = w.Write([]byte(`{"followed":true}`))
			return
		}
		http.Redirect(w, r, "/final", http.StatusFound)
	}))
	defer server.Close()

	_, err := Do(Params{URL: server.URL + "/redirect"})

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 302, serr.StatusCode)
	assert.Equal(t, 0, finalHits, "a 3xx response must reject without a second request")
}

func TestDo_StreamMode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("raw bytes, not json"))
	}))
	defer server.Close()

	result, err := Do(Params{URL: server.URL, ReturnStream: true})

	require.NoError(t, err)
	require.NotNil(t, result.Stream)
	assert.Nil(t, result.Value)
	assert.Empty(t, result.Body)

	data, err := io.ReadAll(result.Stream)
	require.NoError(t, err)
	require.NoError(t, result.Stream.Close())
	assert.Equal(t, "raw bytes, not json", string(data))
}

func TestDo_BodyParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	_, err := Do(Params{URL: server.URL})

	var perr *BodyParseError
	require.ErrorAs(t, err, &perr)
}

func TestDo_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := Do(Params{URL: server.URL, Timeout: 50 * time.Millisecond})

	var terr *TimeoutError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 50*time.Millisecond, terr.Timeout)
	assert.Contains(t, err.Error(), "50ms")
}

func TestDo_TransportError(t *testing.T) {
	// Nothing listens here; the connection is refused immediately.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := Do(Params{URL: url})

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, err.Error(), "Http error:")
}

func TestDo_ValidationFailsBeforeAnyRequest(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	_, err := Do(Params{URL: server.URL, Method: "TRACE"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, requests)
}

func TestDo_BasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "secret", pass)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := Do(Params{URL: server.URL, Auth: "user:secret"})
	require.NoError(t, err)
}

func TestDo_InsecureTLS(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"secure":true}`))
	}))
	defer server.Close()

	// The test server uses a self-signed certificate, so verification
	// must fail unless RejectUnauthorized is explicitly false.
	_, err := Do(Params{URL: server.URL})
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, err.Error(), "Https error:")

	result, err := Do(Params{URL: server.URL, RejectUnauthorized: boolPtr(false)})
	require.NoError(t, err)
	assert.True(t, result.Get("secure").Bool())
}

func TestDo_CustomAgent(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	// The test server's preconfigured client transport trusts its
	// self-signed certificate.
	_, err := Do(Params{URL: server.URL, Agent: server.Client().Transport})
	require.NoError(t, err)
}

func TestDelete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DELETE", r.Method)
		_, _ = w.Write([]byte(`{"deleted":true}`))
	}))
	defer server.Close()

	result, err := Delete(server.URL+"/users/1", nil)
	require.NoError(t, err)
	assert.True(t, result.Get("deleted").Bool())
}
