package http_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AdamMoses-GitHub/cleanplate"
	cphttp "github.com/AdamMoses-GitHub/cleanplate/http"
	"github.com/AdamMoses-GitHub/cleanplate/mock"
	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFetcher disables the per-domain delay so tests hitting one httptest
// server do not sleep.
func newFetcher(opts ...cphttp.Option) *cphttp.Fetcher {
	return cphttp.NewFetcher(append([]cphttp.Option{cphttp.WithMinDomainDelay(0)}, opts...)...)
}

func serve(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return server
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		})

		fetcher := newFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", html)
	})

	t.Run("sends browser headers and a sticky user agent", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var seen []http.Header
		server := serve(t, func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			seen = append(seen, r.Header.Clone())
			mu.Unlock()
			_, _ = w.Write([]byte("ok"))
		})

		fetcher := newFetcher()
		defer fetcher.Close()

		for range 3 {
			_, err := fetcher.Fetch(context.Background(), server.URL)
			require.NoError(t, err)
		}

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, seen, 3)
		ua := seen[0].Get("User-Agent")
		assert.Contains(t, cphttp.DefaultUserAgents, ua)
		assert.Equal(t, fetcher.Session().UserAgent(), ua)
		for _, h := range seen {
			assert.Equal(t, ua, h.Get("User-Agent"))
			assert.Equal(t, "gzip, deflate, br", h.Get("Accept-Encoding"))
			assert.Equal(t, "1", h.Get("DNT"))
			assert.Equal(t, "navigate", h.Get("Sec-Fetch-Mode"))
			assert.Equal(t, "document", h.Get("Sec-Fetch-Dest"))
			assert.NotEmpty(t, h.Get("Accept-Language"))
		}
	})

	t.Run("applies user agent pool and extra headers", func(t *testing.T) {
		t.Parallel()

		headers := make(chan http.Header, 1)
		server := serve(t, func(w http.ResponseWriter, r *http.Request) {
			headers <- r.Header.Clone()
			_, _ = w.Write([]byte("ok"))
		})

		fetcher := newFetcher(
			cphttp.WithUserAgents([]string{"TestAgent/1.0"}),
			cphttp.WithHeaders(map[string]string{"Accept-Language": "fr-FR", "X-Trace": "abc"}),
		)
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		got := <-headers
		assert.Equal(t, "TestAgent/1.0", got.Get("User-Agent"))
		assert.Equal(t, "fr-FR", got.Get("Accept-Language"))
		assert.Equal(t, "abc", got.Get("X-Trace"))
	})

	t.Run("decodes gzip bodies", func(t *testing.T) {
		t.Parallel()

		server := serve(t, func(w http.ResponseWriter, r *http.Request) {
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			_, _ = zw.Write([]byte("<p>compressed</p>"))
			_ = zw.Close()
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(buf.Bytes())
		})

		fetcher := newFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<p>compressed</p>", html)
	})

	t.Run("decodes brotli bodies", func(t *testing.T) {
		t.Parallel()

		server := serve(t, func(w http.ResponseWriter, r *http.Request) {
			var buf bytes.Buffer
			bw := brotli.NewWriter(&buf)
			_, _ = bw.Write([]byte("<p>brotli</p>"))
			_ = bw.Close()
			w.Header().Set("Content-Encoding", "br")
			_, _ = w.Write(buf.Bytes())
		})

		fetcher := newFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<p>brotli</p>", html)
	})

	t.Run("caps the body size", func(t *testing.T) {
		t.Parallel()

		server := serve(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("a", 100)))
		})

		fetcher := newFetcher(cphttp.WithMaxBodySize(10))
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Len(t, html, 10)
	})

	t.Run("rejects invalid urls", func(t *testing.T) {
		t.Parallel()

		fetcher := newFetcher()
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), "ftp://example.com/file")
		assert.Equal(t, cleanplate.EINVALID, cleanplate.ErrorCode(err))
	})
}

func TestFetcher_Fetch_Classification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		status     int
		body       string
		wantCode   string
		wantStatus int
	}{
		{
			name:       "403 is access denied",
			status:     http.StatusForbidden,
			body:       "Forbidden",
			wantCode:   cleanplate.EACCESSDENIED,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "429 is access denied",
			status:     http.StatusTooManyRequests,
			body:       "Slow down",
			wantCode:   cleanplate.EACCESSDENIED,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "404 is an http error",
			status:     http.StatusNotFound,
			body:       "404 Not Found",
			wantCode:   cleanplate.EHTTP,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "500 is an http error",
			status:     http.StatusInternalServerError,
			body:       "oops",
			wantCode:   cleanplate.EHTTP,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "challenge page with error status",
			status:     http.StatusServiceUnavailable,
			body:       `<html><title>Just a moment...</title><div id="cf-challenge"></div></html>`,
			wantCode:   cleanplate.EBOTCHALLENGE,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "challenge page with ok status",
			status:     http.StatusOK,
			body:       `<html><body>Checking your browser before accessing example.com</body></html>`,
			wantCode:   cleanplate.EBOTCHALLENGE,
			wantStatus: http.StatusOK,
		},
		{
			name:     "small javascript shell",
			status:   http.StatusOK,
			body:     `<html><body><noscript>Please enable JavaScript to view this site.</noscript><div id="root"></div></body></html>`,
			wantCode: cleanplate.EJSREQUIRED,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := serve(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			fetcher := newFetcher()
			defer fetcher.Close()

			html, err := fetcher.Fetch(context.Background(), server.URL)
			require.Error(t, err)
			assert.Empty(t, html)
			assert.Equal(t, tc.wantCode, cleanplate.ErrorCode(err))
			assert.Equal(t, tc.wantStatus, cleanplate.ErrorStatus(err))
		})
	}

	t.Run("large page mentioning javascript is returned", func(t *testing.T) {
		t.Parallel()

		body := "<html><body>" + strings.Repeat("<p>Whisk the eggs.</p>", 400) +
			"<noscript>Please enable JavaScript for comments.</noscript></body></html>"
		require.Greater(t, len(body), cphttp.JSShellLimit)

		server := serve(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})

		fetcher := newFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, body, html)
	})
}

func TestFetcher_Fetch_Transport(t *testing.T) {
	t.Parallel()

	t.Run("timeout is a network error", func(t *testing.T) {
		t.Parallel()

		server := serve(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(500 * time.Millisecond):
			case <-r.Context().Done():
			}
			_, _ = w.Write([]byte("response"))
		})

		fetcher := newFetcher(cphttp.WithTimeout(20 * time.Millisecond))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, cleanplate.ENETWORK, cleanplate.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := serve(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("response"))
		})

		fetcher := newFetcher()
		defer fetcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.Fetch(ctx, server.URL)
		require.Error(t, err)
		assert.True(t, cleanplate.IsNetworkError(err))
	})

	t.Run("unresolvable host is a network error", func(t *testing.T) {
		t.Parallel()

		fetcher := newFetcher(cphttp.WithTimeout(time.Second))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), "http://non-existent-host.invalid/page")
		require.Error(t, err)
		assert.Equal(t, cleanplate.ENETWORK, cleanplate.ErrorCode(err))
	})

	t.Run("untrusted certificate is a network error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("secret"))
		}))
		defer server.Close()

		fetcher := newFetcher(cphttp.WithTimeout(2 * time.Second))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.True(t, cleanplate.IsNetworkError(err))
	})
}

func TestFetcher_Fetch_Redirects(t *testing.T) {
	t.Parallel()

	// chain redirects /hop/N to /hop/N-1 and serves the page at /hop/0.
	chain := func(t *testing.T) *httptest.Server {
		mux := http.NewServeMux()
		mux.HandleFunc("/hop/{n}", func(w http.ResponseWriter, r *http.Request) {
			n := r.PathValue("n")
			if n == "0" {
				_, _ = w.Write([]byte("arrived"))
				return
			}
			next := map[string]string{"1": "0", "2": "1", "3": "2", "4": "3"}[n]
			http.Redirect(w, r, "/hop/"+next, http.StatusFound)
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)
		return server
	}

	t.Run("follows redirects within the cap", func(t *testing.T) {
		t.Parallel()

		server := chain(t)
		fetcher := newFetcher(cphttp.WithMaxRedirects(3))
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL+"/hop/3")
		require.NoError(t, err)
		assert.Equal(t, "arrived", html)
	})

	t.Run("fails past the cap", func(t *testing.T) {
		t.Parallel()

		server := chain(t)
		fetcher := newFetcher(cphttp.WithMaxRedirects(3))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL+"/hop/4")
		require.Error(t, err)
		assert.Equal(t, cleanplate.ENETWORK, cleanplate.ErrorCode(err))
	})

	t.Run("screens redirect targets with the validator", func(t *testing.T) {
		t.Parallel()

		var internalHits atomic.Int32
		internal := serve(t, func(w http.ResponseWriter, r *http.Request) {
			internalHits.Add(1)
			_, _ = w.Write([]byte("secret"))
		})
		public := serve(t, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, internal.URL+"/admin", http.StatusFound)
		})

		var checked []string
		validator := &mock.URLValidator{
			ValidateFn: func(ctx context.Context, rawURL string) error {
				checked = append(checked, rawURL)
				if strings.HasPrefix(rawURL, internal.URL) {
					return cleanplate.Errorf(cleanplate.EUNSAFEURL, "internal host")
				}
				return nil
			},
		}
		fetcher := newFetcher(cphttp.WithValidator(validator))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), public.URL+"/recipe")
		require.Error(t, err)
		assert.Equal(t, cleanplate.EUNSAFEURL, cleanplate.ErrorCode(err))
		assert.Equal(t, []string{internal.URL + "/admin"}, checked)
		assert.Zero(t, internalHits.Load())
	})

	t.Run("refuses a redirect to the metadata address", func(t *testing.T) {
		t.Parallel()

		server := serve(t, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "http://169.254.169.254/latest/meta-data", http.StatusFound)
		})
		fetcher := newFetcher(cphttp.WithValidator(cphttp.NewURLValidator()))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		assert.Equal(t, cleanplate.EUNSAFEURL, cleanplate.ErrorCode(err))
	})
}

func TestFetcher_Fetch_DialGuard(t *testing.T) {
	t.Parallel()

	t.Run("refuses loopback connections", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := serve(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			_, _ = w.Write([]byte("loopback"))
		})
		fetcher := newFetcher(cphttp.WithDialGuard(true))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, cleanplate.EUNSAFEURL, cleanplate.ErrorCode(err))
		assert.Zero(t, hits.Load())
	})

	t.Run("off by default", func(t *testing.T) {
		t.Parallel()

		server := serve(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("loopback"))
		})
		fetcher := newFetcher()
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
	})
}

func TestFetcher_Fetch_Cookies(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		http.Redirect(w, r, "/recipe", http.StatusFound)
	})
	mux.HandleFunc("/recipe", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session")
		if err != nil {
			_, _ = w.Write([]byte("no cookie"))
			return
		}
		_, _ = w.Write([]byte("cookie=" + c.Value))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := newFetcher()
	defer fetcher.Close()

	html, err := fetcher.Fetch(context.Background(), server.URL+"/start")
	require.NoError(t, err)
	assert.Equal(t, "cookie=abc", html, "cookie carried across the redirect chain")

	html, err = fetcher.Fetch(context.Background(), server.URL+"/recipe")
	require.NoError(t, err)
	assert.Equal(t, "no cookie", html, "cookies do not outlive a fetch")
}

func TestFetcher_Fetch_DomainDelay(t *testing.T) {
	t.Parallel()

	server := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	clock := newFakeClock()
	fetcher := cphttp.NewFetcher(
		cphttp.WithMinDomainDelay(2*time.Second),
		cphttp.WithClock(clock.Now, clock.Sleep),
	)
	defer fetcher.Close()

	for range 2 {
		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
	}

	assert.Equal(t, []time.Duration{2 * time.Second}, clock.Slept())
}

// Compile-time verification that Fetcher implements cleanplate.Fetcher
var _ cleanplate.Fetcher = (*cphttp.Fetcher)(nil)
