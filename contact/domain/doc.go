// Package domain define os tipos do formulário de contato: a submissão, o
// resultado da validação e o contrato de entrega.
//
// Não depende de net/http nem de bibliotecas de validação.
package domain
