package auth

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/venus/internal/common"
	"google.golang.org/grpc/metadata"
)

// RequestMetadata is the read-only view of an inbound request the core needs.
type RequestMetadata struct {
	Authorization string
	Cookie        string
	Host          string
}

// MetadataFromHTTP copies the relevant headers of r.
func MetadataFromHTTP(r *http.Request) RequestMetadata {
	return RequestMetadata{
		Authorization: r.Header.Get(common.AuthorizationHeader),
		Cookie:        strings.Join(r.Header.Values("Cookie"), "; "),
		Host:          r.Host,
	}
}

// MetadataFromGRPC reads authorization, cookie and :authority from incoming
// gRPC metadata. Keys in metadata.MD are lower case.
func MetadataFromGRPC(md metadata.MD) RequestMetadata {
	first := func(key string) string {
		if v := md.Get(key); len(v) > 0 {
			return v[0]
		}
		return ""
	}
	return RequestMetadata{
		Authorization: first("authorization"),
		Cookie:        strings.Join(md.Get("cookie"), "; "),
		Host:          first(":authority"),
	}
}

// ExtractToken returns the bearer token carried by md. A well-formed
// "Authorization: Bearer <t>" always wins; otherwise the "token" cookie is
// used.
func ExtractToken(md RequestMetadata) (string, bool) {
	if t, ok := strings.CutPrefix(md.Authorization, common.BearerPrefix); ok {
		if t = strings.TrimSpace(t); t != "" {
			return t, true
		}
	}

	for _, pair := range strings.Split(md.Cookie, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if ok && name == common.TokenCookieName && value != "" {
			return value, true
		}
	}

	return "", false
}
