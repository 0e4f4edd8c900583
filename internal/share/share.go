package share

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
)

// Encode serializes v as JSON, compresses it with DEFLATE, and returns a
// URL-safe base64 string suitable for a fragment identifier or path
// segment.
func Encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode share code: %w", err)
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("encode share code: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("encode share code: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("encode share code: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode recovers a value produced by Encode into v. Malformed or
// truncated codes return an error rather than partial data.
func Decode(code string, v any) error {
	compressed, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return fmt.Errorf("invalid share code: %w", err)
	}

	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("invalid share code: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid share code: %w", err)
	}
	return nil
}
