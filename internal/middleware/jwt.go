package middleware

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// JWTAuth validates a Bearer access token and stores the authenticated user
// ID in the request context under "user_id" as a uint64.  Every reservation
// route sits behind this middleware; handlers read the ID back with
// c.Get("user_id").(uint64).
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            uid, ok := subjectID(claims["sub"])
            if !ok || uid == 0 {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
            }
            c.Set("user_id", uid)
            return next(c)
        }
    }
}

// subjectID normalizes the sub claim.  Numeric claims come back from the
// JSON decoder as float64; tokens minted by older builds carried a string.
func subjectID(v interface{}) (uint64, bool) {
    switch s := v.(type) {
    case float64:
        if s < 0 {
            return 0, false
        }
        return uint64(s), true
    case string:
        n, err := strconv.ParseUint(s, 10, 64)
        if err != nil {
            return 0, false
        }
        return n, true
    }
    return 0, false
}
