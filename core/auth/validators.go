package auth

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/academia/core"
)

var (
	// password policy
	pwdMinLen     = 3
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to the email address"
)

func init() {
	core.Validate.RegisterStructValidation(registerStructValidation, RegisterAccount{})
	core.RegisterCustomTranslation(pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(pwdAttrSimTag, pwdAttrSimText)
}

// registerStructValidation applies the password policy to RegisterAccount:
// - minLen: 3
// - no similarity to the email address
func registerStructValidation(sl validator.StructLevel) {
	acct, ok := sl.Current().Interface().(RegisterAccount)
	if !ok {
		return
	}

	reportErr := func(tag string) {
		sl.ReportError(acct.Password, "password", "Password", tag, "")
	}

	if len(acct.Password) < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}

	if acct.Email != "" {
		ratio := difflib.NewMatcher(strings.Split(acct.Password, ""), strings.Split(acct.Email, "")).QuickRatio()
		if ratio >= pwdMaxSim {
			reportErr(pwdAttrSimTag)
		}
	}
}
