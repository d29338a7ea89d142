package domain

import (
	"maps"
	"slices"
	"strings"
)

// Fields lista os campos na ordem em que os erros são apresentados.
var Fields = []string{"name", "email", "subject", "message"}

// BodyField é a chave usada quando a entrada inteira é inválida (não é objeto).
const BodyField = "body"

// Outcome é o resultado da validação: Accepted ou Rejected, nunca os dois.
//
// Consumidores devem usar um type switch cobrindo as duas variantes.
type Outcome interface {
	outcome()
}

type Accepted struct {
	Submission Submission
}

// Rejected mapeia campo -> mensagem legível. Só campos inválidos aparecem.
type Rejected struct {
	Errors map[string]string
}

func (Accepted) outcome() {}
func (Rejected) outcome() {}

// Message junta todas as mensagens com ", ": BodyField, depois Fields, depois
// qualquer outro campo em ordem alfabética.
func (r Rejected) Message() string {
	order := append([]string{BodyField}, Fields...)
	for _, f := range slices.Sorted(maps.Keys(r.Errors)) {
		if !slices.Contains(order, f) {
			order = append(order, f)
		}
	}

	msgs := make([]string, 0, len(r.Errors))
	for _, f := range order {
		if m, ok := r.Errors[f]; ok {
			msgs = append(msgs, m)
		}
	}
	return strings.Join(msgs, ", ")
}
