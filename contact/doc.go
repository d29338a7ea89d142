// Package contact expõe o endpoint do formulário de contato sobre net/http.
//
// POST /api/contact passa pelo rate limit, decodifica o JSON, valida, sanitiza
// e entrega. GET /api/contact é o health probe. Todas as respostas usam o
// envelope {success, data | error}.
package contact
