// Package respond writes JSON responses with one shape everywhere:
// payloads go out as-is, errors as {"error": "..."}.
package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/madrichim/leadhub/internal/app/system/limits"
)

// JSON writes v as a JSON body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone; nothing left to do but note it.
		zap.L().Warn("encode response failed", zap.Error(err))
	}
}

// Error writes a JSON error body with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// DecodeBody decodes a JSON request body into dst, rejecting unknown fields.
// Bodies larger than limits.MaxJSONBodySize fail to decode.
func DecodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
