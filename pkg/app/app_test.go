package app_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/darkkaiser/hms-push/pkg/app"
	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	"github.com/darkkaiser/hms-push/pkg/messaging"
	"github.com/darkkaiser/hms-push/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pushServer 인증 서버와 푸시 서비스를 함께 흉내 내는 TLS 테스트 서버
type pushServer struct {
	*httptest.Server

	tokenRequests atomic.Int32
	sendRequests  atomic.Int32
	lastSendPath  atomic.Value
}

func newPushServer(t *testing.T) *pushServer {
	t.Helper()

	s := &pushServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth2/v3/token", func(w http.ResponseWriter, r *http.Request) {
		s.tokenRequests.Add(1)
		_, _ = io.WriteString(w, `{"access_token":"app-token","expires_in":3600}`)
	})
	mux.HandleFunc("POST /{version}/{id}/messages:send", func(w http.ResponseWriter, r *http.Request) {
		s.sendRequests.Add(1)
		s.lastSendPath.Store(r.URL.Path)

		assert.Equal(t, "Bearer app-token", r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("User-Agent"), "hms-push-go/")

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"code":"80000000","msg":"Success","requestId":"req-1"}`)
	})

	s.Server = httptest.NewTLSServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *pushServer) options() app.Options {
	return app.Options{
		LoginURI:     s.URL + "/oauth2/v3/token",
		APIBaseURI:   s.URL,
		ClientID:     "12345678",
		ClientSecret: "secret",
	}
}

// fetcher 테스트 서버의 인증서를 신뢰하는 Fetcher 체인
func (s *pushServer) fetcher(t *testing.T) transport.Fetcher {
	t.Helper()

	f, err := transport.New(transport.Config{DisableLogging: true, UserAgent: "hms-push-go/test"}, transport.WithTransport(s.Client().Transport))
	require.NoError(t, err)
	return f
}

func newTestMessage() *messaging.Message {
	return &messaging.Message{
		Notification: &messaging.Notification{Title: "title", Body: "body"},
		Token:        []string{"device-token"},
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := app.New(app.Options{ClientID: "12345678"})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.InvalidArgument))
}

func TestApp_Send(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mutate       func(*app.Options)
		expectedPath string
	}{
		{"App scoped", func(*app.Options) {}, "/v1/12345678/messages:send"},
		{"Project scoped", func(o *app.Options) {
			o.APIVersion = app.APIVersionV2
			o.ProjectID = "proj-1"
		}, "/v2/proj-1/messages:send"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newPushServer(t)
			opts := srv.options()
			tt.mutate(&opts)

			a, err := app.New(opts, app.WithFetcher(srv.fetcher(t)))
			require.NoError(t, err)
			defer a.Close()

			client, err := a.Messaging()
			require.NoError(t, err)

			requestID, err := client.Send(context.Background(), newTestMessage(), false)
			require.NoError(t, err)

			assert.Equal(t, "req-1", requestID)
			assert.Equal(t, tt.expectedPath, srv.lastSendPath.Load())
		})
	}
}

func TestApp_MessagingIsShared(t *testing.T) {
	t.Parallel()

	srv := newPushServer(t)

	a, err := app.New(srv.options(), app.WithFetcher(srv.fetcher(t)))
	require.NoError(t, err)
	defer a.Close()

	const callers = 10
	clients := make([]*messaging.Client, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := a.Messaging()
			assert.NoError(t, err)
			clients[i] = c
		}()
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		assert.Same(t, clients[0], clients[i])
	}

	// 토큰은 App 단위로 캐시됩니다.
	for range 3 {
		_, err := clients[0].Send(context.Background(), newTestMessage(), true)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, srv.tokenRequests.Load())
	assert.EqualValues(t, 3, srv.sendRequests.Load())
}

func TestApp_Close(t *testing.T) {
	t.Parallel()

	srv := newPushServer(t)

	a, err := app.New(srv.options(), app.WithFetcher(srv.fetcher(t)))
	require.NoError(t, err)

	client, err := a.Messaging()
	require.NoError(t, err)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close(), "Close는 여러 번 호출해도 안전해야 합니다")

	_, err = a.Messaging()
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Internal))

	// 이미 받아 간 클라이언트는 계속 동작합니다.
	_, err = client.Send(context.Background(), newTestMessage(), true)
	assert.NoError(t, err)
}

// closeTrackingTransport CloseIdleConnections 호출 횟수를 기록하는 RoundTripper
type closeTrackingTransport struct {
	http.RoundTripper
	closed atomic.Int32
}

func (t *closeTrackingTransport) CloseIdleConnections() {
	t.closed.Add(1)
}

func TestApp_CloseReleasesIdleConnections(t *testing.T) {
	t.Parallel()

	t.Run("Owned fetcher chain", func(t *testing.T) {
		t.Parallel()

		srv := newPushServer(t)
		rt := &closeTrackingTransport{RoundTripper: srv.Client().Transport}

		opts := srv.options()
		opts.HTTP.DisableLogging = true

		a, err := app.New(opts, app.WithHTTPTransport(rt))
		require.NoError(t, err)

		client, err := a.Messaging()
		require.NoError(t, err)
		_, err = client.Send(context.Background(), newTestMessage(), true)
		require.NoError(t, err)

		require.NoError(t, a.Close())
		require.NoError(t, a.Close())
		assert.EqualValues(t, 1, rt.closed.Load())
	})

	t.Run("Injected fetcher is left to the caller", func(t *testing.T) {
		t.Parallel()

		srv := newPushServer(t)
		rt := &closeTrackingTransport{RoundTripper: srv.Client().Transport}

		f, err := transport.New(transport.Config{DisableLogging: true}, transport.WithTransport(rt))
		require.NoError(t, err)

		a, err := app.New(srv.options(), app.WithFetcher(f))
		require.NoError(t, err)

		require.NoError(t, a.Close())
		assert.Zero(t, rt.closed.Load())
	})
}

func TestApp_Options(t *testing.T) {
	t.Parallel()

	a, err := app.New(app.Options{ClientID: "12345678", ClientSecret: "secret"})
	require.NoError(t, err)
	defer a.Close()

	opts := a.Options()
	assert.Equal(t, app.DefaultAPIBaseURI, opts.APIBaseURI)
	assert.Equal(t, app.APIVersionV1, opts.APIVersion)

	opts.ClientID = "changed"
	assert.Equal(t, "12345678", a.Options().ClientID, "반환된 설정을 바꿔도 App에는 영향이 없어야 합니다")
}
