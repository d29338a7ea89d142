package domain

import "time"

// Submission é uma mensagem do formulário de contato.
//
// Depois de aceita pelo validador: Name 1–100, Subject 1–200 e Message
// 10–5000 caracteres (runas, após trim), e Email no formato local@dominio.tld
// em minúsculas.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Receipt identifica uma submissão aceita para entrega.
type Receipt struct {
	ID         string
	ReceivedAt time.Time
}
