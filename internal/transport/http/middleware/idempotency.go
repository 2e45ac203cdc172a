package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"staffing/internal/transport/http/api"
)

// IdempotencyHeader lets a client retry an allocation command without
// applying it twice.
const IdempotencyHeader = "Idempotency-Key"

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

type storedResponse struct {
	requestHash string
	pending     bool
	status      int
	contentType string
	body        []byte
	expires     time.Time
}

// IdempotencyStore remembers responses per actor, endpoint and key. It is
// local to one process.
type IdempotencyStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]storedResponse
	now     func() time.Time
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{ttl: ttl, entries: map[string]storedResponse{}, now: time.Now}
}

// reserve returns the live entry for key if there is one. Otherwise it
// claims key as pending for the caller and reports false.
func (s *IdempotencyStore) reserve(key, hash string) (storedResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if entry, ok := s.entries[key]; ok && !now.After(entry.expires) {
		return entry, true
	}
	s.entries[key] = storedResponse{requestHash: hash, pending: true, expires: now.Add(s.ttl)}
	return storedResponse{}, false
}

func (s *IdempotencyStore) save(key string, entry storedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, k)
		}
	}
	entry.expires = now.Add(s.ttl)
	s.entries[key] = entry
}

func (s *IdempotencyStore) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[key]; ok && entry.pending {
		delete(s.entries, key)
	}
}

type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (c *captureWriter) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *captureWriter) Write(p []byte) (int, error) {
	c.buf.Write(p)
	return c.ResponseWriter.Write(p)
}

// Idempotent replays the first completed response for a repeated key. A key
// reused with a different body is a conflict, as is a repeat that arrives
// while the first request is still running. Server errors are not stored.
func Idempotent(store *IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if store == nil || key == "" {
				next.ServeHTTP(w, r)
				return
			}
			payload, err := io.ReadAll(r.Body)
			if err != nil {
				api.Fail(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large", GetRequestID(r.Context()))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(payload))

			actor := ClientIP(r)
			if user, ok := GetUser(r.Context()); ok {
				actor = user.Username
			}
			storeKey := actor + "|" + r.Method + " " + r.URL.Path + "|" + key
			hash := RequestHash(payload)

			if prior, ok := store.reserve(storeKey, hash); ok {
				requestID := GetRequestID(r.Context())
				switch {
				case prior.requestHash != hash:
					api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key reused with a different request", requestID)
				case prior.pending:
					api.Fail(w, http.StatusConflict, "idempotency_in_progress", "a request with this idempotency key is still being processed", requestID)
				default:
					w.Header().Set("Content-Type", prior.contentType)
					w.Header().Set("Idempotent-Replayed", "true")
					w.WriteHeader(prior.status)
					_, _ = w.Write(prior.body)
				}
				return
			}

			saved := false
			defer func() {
				if !saved {
					store.release(storeKey)
				}
			}()
			capture := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(capture, r)
			if capture.status < 500 {
				store.save(storeKey, storedResponse{
					requestHash: hash,
					status:      capture.status,
					contentType: capture.Header().Get("Content-Type"),
					body:        capture.buf.Bytes(),
				})
				saved = true
			}
		})
	}
}
