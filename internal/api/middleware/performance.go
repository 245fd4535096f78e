package middleware

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Compression gzips responses for clients that accept it
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gz := gzip.NewWriter(w)
		defer gz.Close()

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		w.Header().Del("Content-Length")

		next.ServeHTTP(&gzipResponseWriter{ResponseWriter: w, writer: gz}, r)
	})
}

type gzipResponseWriter struct {
	http.ResponseWriter
	writer *gzip.Writer
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.writer.Write(b)
}

func (w *gzipResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("response writer does not support hijacking")
}

// CacheControl sets browser cache headers per route family. The static
// locality tables can be cached aggressively; provider data stays short.
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			switch {
			case strings.HasPrefix(r.URL.Path, "/api/regions"),
				strings.HasPrefix(r.URL.Path, "/api/localities"):
				w.Header().Set("Cache-Control", "public, max-age=3600")
			case strings.HasPrefix(r.URL.Path, "/api/providers"):
				w.Header().Set("Cache-Control", "public, max-age=60")
			}
		}
		next.ServeHTTP(w, r)
	})
}

// ResponseOptimization bundles the HTTP performance middleware
func ResponseOptimization(next http.Handler) http.Handler {
	return Compression(CacheControl(next))
}
