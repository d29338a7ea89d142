// Package application contém os casos de uso do formulário de contato:
// validação da entrada não tipada, sanitização e entrega.
package application
