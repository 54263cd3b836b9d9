package diagram

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
	"strings"
)

// The render server's 64-symbol alphabet. Not base64: digits come first.
const encodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

// EncodeSource deflate-compresses diagram source text and encodes it with
// the render server's alphabet, producing the URL-safe token the server
// expects on its render path.
func EncodeSource(source string) (string, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("compress diagram source: %w", err)
	}
	if _, err := w.Write([]byte(source)); err != nil {
		return "", fmt.Errorf("compress diagram source: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("compress diagram source: %w", err)
	}
	return encode64(buf.Bytes()), nil
}

// DecodeToken is the inverse of EncodeSource.
func DecodeToken(token string) (string, error) {
	data, err := decode64(token)
	if err != nil {
		return "", err
	}
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("inflate diagram token: %w", err)
	}
	return string(out), nil
}

// RenderURL builds the server URL that renders the given diagram source as
// a PNG image.
func RenderURL(server, source string) (string, error) {
	token, err := EncodeSource(source)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(server, "/") + "/png/" + token, nil
}

func encode64(data []byte) string {
	var b strings.Builder
	for i := 0; i < len(data); i += 3 {
		var b1, b2, b3 byte
		b1 = data[i]
		if i+1 < len(data) {
			b2 = data[i+1]
		}
		if i+2 < len(data) {
			b3 = data[i+2]
		}
		b.WriteByte(encodeAlphabet[b1>>2])
		b.WriteByte(encodeAlphabet[((b1&0x3)<<4)|(b2>>4)])
		b.WriteByte(encodeAlphabet[((b2&0xF)<<2)|(b3>>6)])
		b.WriteByte(encodeAlphabet[b3&0x3F])
	}
	return b.String()
}

func decode64(token string) ([]byte, error) {
	if len(token)%4 != 0 {
		return nil, fmt.Errorf("invalid diagram token length %d", len(token))
	}
	var out bytes.Buffer
	for i := 0; i < len(token); i += 4 {
		var vals [4]byte
		for j := 0; j < 4; j++ {
			idx := strings.IndexByte(encodeAlphabet, token[i+j])
			if idx < 0 {
				return nil, fmt.Errorf("invalid diagram token character %q", token[i+j])
			}
			vals[j] = byte(idx)
		}
		out.WriteByte(vals[0]<<2 | vals[1]>>4)
		out.WriteByte((vals[1]&0xF)<<4 | vals[2]>>2)
		out.WriteByte((vals[2]&0x3)<<6 | vals[3])
	}
	return out.Bytes(), nil
}
