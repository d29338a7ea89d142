// Package infra contém os destinos de entrega do formulário de contato.
//
//   - LogNotifier: envio simulado (atraso fixo + uma linha de log)
//   - RedisStreamNotifier: publica num stream do Redis para um mailer externo
//   - ThrottledNotifier: limita a vazão de envios com golang.org/x/time/rate
package infra
