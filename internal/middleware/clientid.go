package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

type contextKey string

const (
	ClientIPKey   contextKey = "client_ip"
	ClientSlotKey contextKey = "client_slot"

	// SlotHeader lets a dashboard tab name its own computation slot.
	SlotHeader = "X-Dashboard-Slot"
)

// ClientIdentifier stores the client IP and the dashboard slot in the request
// context. The slot is the X-Dashboard-Slot header when present, otherwise a
// fingerprint of the client's headers.
func ClientIdentifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)

		slot := strings.TrimSpace(r.Header.Get(SlotHeader))
		if slot == "" {
			slot = fingerprint(r, ip)
		}

		ctx := context.WithValue(r.Context(), ClientIPKey, ip)
		ctx = context.WithValue(ctx, ClientSlotKey, slot)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

func fingerprint(r *http.Request, ip string) string {
	data := strings.Join([]string{
		r.Header.Get("User-Agent"),
		r.Header.Get("Accept-Language"),
		ip,
	}, "|")

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16])
}

// GetClientIP retrieves the client IP from context
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ClientIPKey).(string); ok {
		return ip
	}
	return "unknown"
}

// GetClientSlot retrieves the dashboard slot from context
func GetClientSlot(ctx context.Context) string {
	if slot, ok := ctx.Value(ClientSlotKey).(string); ok {
		return slot
	}
	return "unknown"
}
