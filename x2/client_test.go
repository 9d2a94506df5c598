package x2

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/x2rest/sanitize"
)

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		user    string
		apiKey  string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			baseURL: "http://crm.local/index.php/api2/",
			user:    "admin",
			apiKey:  "key",
		},
		{
			name:    "missing URL",
			user:    "admin",
			apiKey:  "key",
			wantErr: true,
			errMsg:  "URL is required",
		},
		{
			name:    "missing user",
			baseURL: "http://crm.local/index.php/api2",
			apiKey:  "key",
			wantErr: true,
			errMsg:  "API user is required",
		},
		{
			name:    "missing API key",
			baseURL: "http://crm.local/index.php/api2",
			user:    "admin",
			wantErr: true,
			errMsg:  "API key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.user, tt.apiKey, logger)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "http://crm.local/index.php/api2", client.baseURL)
			assert.True(t, client.Purify())
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("http://crm.local", "u", "k", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		hc, ok := client.httpClient.(*http.Client)
		require.True(t, ok)
		assert.Equal(t, 5*time.Second, hc.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("http://crm.local", "u", "k", logger, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Equal(t, custom, client.httpClient)
	})

	t.Run("without purify", func(t *testing.T) {
		client, err := NewClient("http://crm.local", "u", "k", logger, WithPurify(false))
		require.NoError(t, err)
		assert.False(t, client.Purify())
		assert.Equal(t, "<b>x</b>", client.purifyValue("<b>x</b>"))
	})

	t.Run("with sanitizer", func(t *testing.T) {
		client, err := NewClient("http://crm.local", "u", "k", logger, WithSanitizer(sanitize.Nop{}))
		require.NoError(t, err)
		assert.Equal(t, "<script>x</script>", client.purifyValue("<script>x</script>"))
	})

	t.Run("purify leaves non-strings alone", func(t *testing.T) {
		client, err := NewClient("http://crm.local", "u", "k", logger)
		require.NoError(t, err)
		assert.Equal(t, 42, client.purifyValue(42))
		assert.Nil(t, client.purifyValue(nil))
		assert.Equal(t, true, client.purifyValue(true))
	})
}

func TestDoRequestHeaders(t *testing.T) {
	crm := newFakeCRM(t)
	client := crm.client(t, WithUserAgent("x2rest-test"))

	require.NoError(t, client.TestConnection(context.Background()))

	reqs := crm.recorded(http.MethodGet, "dropdowns")
	require.Len(t, reqs, 1)
	h := reqs[0].Header
	assert.Equal(t, "application/json", h.Get("Accept"))
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.Equal(t, "x2rest-test", h.Get("User-Agent"))
	assert.Len(t, h.Get("X-Request-ID"), 36)
}

func TestDoRequestErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unauthorized", func(t *testing.T) {
		crm := newFakeCRM(t)
		client, err := NewClient(crm.server.URL+"/api2", testUser, "wrong", zerolog.Nop())
		require.NoError(t, err)

		err = client.TestConnection(ctx)
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.True(t, te.IsUnauthorized())
		assert.Equal(t, http.MethodGet, te.Method)
		assert.Equal(t, "dropdowns", te.Path)
	})

	t.Run("not found", func(t *testing.T) {
		crm := newFakeCRM(t)
		client := crm.client(t)

		_, err := client.GetEntity(ctx, EntityContacts, 7)
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.True(t, te.IsNotFound())
		assert.Contains(t, te.Body, "not found")
	})

	t.Run("server error", func(t *testing.T) {
		crm := newFakeCRM(t)
		crm.respond(http.MethodGet, "Contacts/7.json", http.StatusInternalServerError, map[string]any{"message": "boom"})
		client := crm.client(t)

		_, err := client.GetEntity(ctx, EntityContacts, 7)
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
		assert.False(t, te.IsNotFound())
	})

	t.Run("malformed JSON", func(t *testing.T) {
		crm := newFakeCRM(t)
		crm.handle(http.MethodGet, "Contacts/7.json", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": 7,`))
		})
		client := crm.client(t)

		_, err := client.GetEntity(ctx, EntityContacts, 7)
		var de *DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "Contacts/7.json", de.Path)
	})

	t.Run("HTML instead of JSON", func(t *testing.T) {
		crm := newFakeCRM(t)
		crm.handle(http.MethodGet, "Contacts/7.json", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html>PHP warning</html>`))
		})
		client := crm.client(t)

		_, err := client.GetEntity(ctx, EntityContacts, 7)
		var de *DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "text/html; charset=utf-8", de.ContentType)
	})

	t.Run("connection refused", func(t *testing.T) {
		crm := newFakeCRM(t)
		client := crm.client(t)
		crm.server.Close()

		err := client.TestConnection(ctx)
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, 0, te.StatusCode)
		assert.Contains(t, te.Error(), "x2 GET dropdowns")
	})
}

func TestTransportError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &TransportError{Method: "GET", Path: "Contacts/1.json", StatusCode: 404, Body: "missing"}
		assert.Equal(t, "x2 GET Contacts/1.json: status 404: missing", err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		inner := errors.New("dial tcp: refused")
		err := &TransportError{Method: "GET", Path: "dropdowns", Err: inner}
		assert.ErrorIs(t, err, inner)
		assert.Equal(t, "x2 GET dropdowns: dial tcp: refused", err.Error())
	})

	t.Run("IsUnauthorized", func(t *testing.T) {
		tests := []struct {
			code     int
			expected bool
		}{
			{401, true},
			{403, true},
			{404, false},
			{500, false},
		}

		for _, tt := range tests {
			err := &TransportError{StatusCode: tt.code}
			assert.Equal(t, tt.expected, err.IsUnauthorized())
		}
	})
}
