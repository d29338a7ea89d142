package ratelimit

import (
	"net/http"
	"strings"
)

// UnknownClient é a chave usada quando não há header de proxy. Todos os
// clientes sem esses headers dividem o mesmo balde.
const UnknownClient = "unknown"

type KeyFunc func(r *http.Request) string

// ClientIPKeyFunc identifica o cliente pelos headers de proxy:
// primeiro IP do X-Forwarded-For, depois X-Real-IP, senão UnknownClient.
func ClientIPKeyFunc(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// pega o primeiro IP do X-Forwarded-For (cliente original)
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	return UnknownClient
}

// DefaultKeyFunc usa keyHeader quando presente na requisição e cai para
// ClientIPKeyFunc.
func DefaultKeyFunc(keyHeader string) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}
		return ClientIPKeyFunc(r)
	}
}
