// Package ratelimit fornece adapters HTTP (net/http) para rate limit por janela
// deslizante e limite de concorrência.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (decisão allow/deny, acquire/timeout) sem net/http
//   - infra: implementações concretas (sliding log em memória/Redis, semáforo, stats)
//   - ratelimit (este pacote): middlewares HTTP + extração de chave + headers
//
// Fluxo:
//
//  1. Extrai a chave do cliente (header opcional, X-Forwarded-For, X-Real-IP)
//  2. Chama a camada application para obter a decisão
//  3. Se bloqueado, delega a resposta ao RejectHandler (429 por padrão)
//  4. Se permitido, chama o próximo handler
package ratelimit
