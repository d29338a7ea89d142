package application

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"contact-gateway/contact/domain"

	"github.com/go-playground/validator/v10"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// contactForm carrega as regras do formulário; os valores já chegam trimados.
type contactForm struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,contact_email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"min=10,max=5000"`
}

var fieldLabels = map[string]string{
	"name":    "Name",
	"email":   "Email",
	"subject": "Subject",
	"message": "Message",
}

// Validator confere uma entrada não tipada (tipicamente o JSON decodificado)
// contra o schema do formulário de contato.
type Validator struct {
	v *validator.Validate
}

func NewValidator() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("contact_email", validateEmail); err != nil {
		return nil, fmt.Errorf("register contact_email: %w", err)
	}
	return &Validator{v: v}, nil
}

func validateEmail(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

// Validate devolve Accepted com os campos trimados e o e-mail em minúsculas, ou
// Rejected com uma mensagem por campo inválido. Todos os campos são checados.
func (val *Validator) Validate(input any) domain.Outcome {
	obj, ok := input.(map[string]any)
	if !ok {
		return domain.Rejected{Errors: map[string]string{
			domain.BodyField: "Request body must be a JSON object",
		}}
	}

	errs := make(map[string]string)
	str := func(field string) string {
		s, ok := obj[field].(string)
		if !ok {
			errs[field] = fieldLabels[field] + " is required"
			return ""
		}
		return strings.TrimSpace(s)
	}

	form := contactForm{
		Name:    str("name"),
		Email:   str("email"),
		Subject: str("subject"),
		Message: str("message"),
	}

	if err := val.v.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return domain.Rejected{Errors: map[string]string{domain.BodyField: "Invalid contact form"}}
		}
		for _, fe := range fieldErrs {
			if _, done := errs[fe.Field()]; done {
				continue
			}
			errs[fe.Field()] = fieldMessage(fe)
		}
	}

	if len(errs) > 0 {
		return domain.Rejected{Errors: errs}
	}
	return domain.Accepted{Submission: domain.Submission{
		Name:    form.Name,
		Email:   strings.ToLower(form.Email),
		Subject: form.Subject,
		Message: form.Message,
	}}
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabels[fe.Field()]
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be less than %s characters", label, fe.Param())
	case "contact_email":
		return "Please enter a valid email address"
	default:
		return label + " is invalid"
	}
}
