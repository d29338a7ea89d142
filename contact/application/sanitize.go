package application

import (
	"strings"

	"contact-gateway/contact/domain"
)

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// SanitizeString remove < e > e apara espaços. Defesa mínima contra markup;
// não substitui o escape na saída.
func SanitizeString(s string) string {
	return strings.TrimSpace(angleBrackets.Replace(s))
}

func Sanitize(sub domain.Submission) domain.Submission {
	return domain.Submission{
		Name:    SanitizeString(sub.Name),
		Email:   strings.ToLower(strings.TrimSpace(sub.Email)),
		Subject: SanitizeString(sub.Subject),
		Message: SanitizeString(sub.Message),
	}
}
