package auth

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// Verifier resolves the caller identity of a request: the subject of a
// valid bearer token when one is present, the transport peer address
// otherwise. Authorization policy beyond "identity present" is out of scope.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier; an empty secret disables token parsing
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Identify returns the caller identity for the request
func (v *Verifier) Identify(r *http.Request) string {
	if sub := v.subject(r.Header.Get("Authorization")); sub != "" {
		return sub
	}
	return peerAddress(r)
}

func (v *Verifier) subject(authorization string) string {
	if len(v.secret) == 0 || !strings.HasPrefix(authorization, bearerPrefix) {
		return ""
	}

	token, err := jwt.Parse(strings.TrimPrefix(authorization, bearerPrefix), func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

func peerAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
