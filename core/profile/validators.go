package profile

import (
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/kitcoek/eduforum/core"
)

var (
	prnTag   = "prn"
	prnText  = "PRN must be 8 digits"
	prnRegex = regexp.MustCompile(`^\d{8}$`)

	facultyEmailTag  = "facultyemail"
	facultyEmailText = "faculty email must be a %s institutional address"
)

// InitValidators registers the profile validation tags. The faculty email
// rule is bound to the configured institutional suffix.
func InitValidators(validate *validator.Validate, translator ut.Translator, conf *core.Config) {
	_ = validate.RegisterValidation(prnTag, prnValidation)
	core.RegisterCustomTranslation(validate, translator, prnTag, prnText)

	suffix := conf.FacultyEmailSuffix
	_ = validate.RegisterValidation(facultyEmailTag, func(fl validator.FieldLevel) bool {
		return strings.Contains(strings.ToLower(fl.Field().String()), suffix)
	})
	core.RegisterCustomTranslation(validate, translator, facultyEmailTag,
		strings.Replace(facultyEmailText, "%s", suffix, 1))
}

// prnValidation checks the Permanent Registration Number format.
func prnValidation(fl validator.FieldLevel) bool {
	return prnRegex.MatchString(fl.Field().String())
}
