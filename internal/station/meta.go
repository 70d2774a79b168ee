package station

import (
	"net/http"
	"strconv"

	"github.com/datdenkikniet/Peroxidecast/internal/models"
)

// metaFromHeaders pulls the ice-* metadata a source sends on connect.
// Missing or empty headers stay unset.
func metaFromHeaders(h http.Header) models.IceMeta {
	var meta models.IceMeta
	if v := h.Get("ice-public"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			meta.Public = &n
		}
	}
	meta.StreamName = h.Get("ice-name")
	meta.Description = h.Get("ice-description")
	meta.Genre = h.Get("ice-genre")
	meta.URL = h.Get("ice-url")
	meta.IRC = h.Get("ice-irc")
	meta.AIM = h.Get("ice-aim")
	meta.ICQ = h.Get("ice-icq")
	meta.AudioInfo = h.Get("ice-audio-info")
	return meta
}

// icyHeaders builds the response headers a listener gets before stream data
// starts. Order is fixed so tests can compare raw output.
func icyHeaders(contentType string, meta models.IceMeta) [][2]string {
	headers := [][2]string{{"Content-Type", contentType}}
	if meta.StreamName != "" {
		headers = append(headers, [2]string{"icy-name", meta.StreamName})
	}
	if meta.Description != "" {
		headers = append(headers, [2]string{"icy-description", meta.Description})
	}
	if meta.Genre != "" {
		headers = append(headers, [2]string{"icy-genre", meta.Genre})
	}
	if meta.URL != "" {
		headers = append(headers, [2]string{"icy-url", meta.URL})
	}
	if meta.Public != nil {
		headers = append(headers, [2]string{"icy-pub", strconv.Itoa(*meta.Public)})
	}
	return headers
}
