package request

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type Activity struct {
	Text string `json:"text" binding:"required,notblank,max=280"`
}

type Comment struct {
	Text string `json:"text" binding:"required,notblank"`
}

// RegisterCustomValidations installs the notblank rule on gin's shared
// validator engine. Call once during startup.
func RegisterCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", notBlank)
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
