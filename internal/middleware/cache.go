package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/sclab/seat-reservation/internal/config"
)

// captureWriter tees the response body into a buffer, up to limit bytes,
// while streaming it to the client.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    size   int64
    limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
    cw.status = code
    cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
    if remain := cw.limit - cw.size; remain > 0 {
        if int64(len(b)) <= remain {
            cw.buf.Write(b)
        } else {
            cw.buf.Write(b[:remain])
        }
    }
    cw.size += int64(len(b))
    return cw.ResponseWriter.Write(b)
}

// NewRedisCache caches successful GET responses for a short TTL.  It is meant
// for the seat catalog and availability grids, which every client polls and
// which only change on writes.  The TTL is the staleness bound: a reservation
// created on another instance shows up in cached availability within one TTL.
// Payload layout is [4 bytes status][4 bytes ctypeLen][ctype][body].
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 10 * time.Second
    }
    maxBody := int64(cfg.MaxBodyBytes)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }

            ctx := c.Request().Context()
            key := cacheKey(cfg.Prefix, c)

            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                if status, ctype, body, ok := decodePayload(bs); ok {
                    if ctype != "" {
                        c.Response().Header().Set(echo.HeaderContentType, ctype)
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(status)
                    _, _ = c.Response().Write(body)
                    return nil
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            // Only complete 200 bodies are cached; a truncated capture means
            // the response outgrew the limit.
            if cw.status == http.StatusOK && cw.size == int64(cw.buf.Len()) {
                ctype := c.Response().Header().Get(echo.HeaderContentType)
                payload := encodePayload(cw.status, ctype, cw.buf.Bytes())
                _ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
            }
            return nil
        }
    }
}

// cacheKey hashes route plus query so availability for different seats and
// days land in separate entries.
func cacheKey(prefix string, c echo.Context) string {
    r := c.Request()
    sum := sha1.Sum([]byte(r.Method + ":" + r.URL.Path + "?" + r.URL.RawQuery))
    return fmt.Sprintf("%s:%x", prefix, sum[:])
}

func encodePayload(status int, ctype string, body []byte) []byte {
    out := make([]byte, 8+len(ctype)+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(ctype)))
    copy(out[8:], ctype)
    copy(out[8+len(ctype):], body)
    return out
}

func decodePayload(bs []byte) (status int, ctype string, body []byte, ok bool) {
    if len(bs) < 8 {
        return 0, "", nil, false
    }
    status = int(binary.BigEndian.Uint32(bs[0:4]))
    clen := int(binary.BigEndian.Uint32(bs[4:8]))
    if clen < 0 || 8+clen > len(bs) {
        return 0, "", nil, false
    }
    return status, string(bs[8 : 8+clen]), bs[8+clen:], true
}
