package storage

import "strings"

// Resolver turns stored image paths into public URLs. Uploads happen out of
// band; the API only ever hands paths back to clients as fetchable URLs.
type Resolver interface {
	PublicURL(path string) string
}

type resolver struct {
	baseURL string
	bucket  string
}

func NewResolver(baseURL, bucket string) Resolver {
	return &resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		bucket:  strings.Trim(bucket, "/"),
	}
}

func (r *resolver) PublicURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		// already a full URL (legacy rows store these)
		return path
	}
	return r.baseURL + "/" + r.bucket + "/" + strings.TrimLeft(path, "/")
}
