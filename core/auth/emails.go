package auth

import (
	"net/mail"
	texttmpl "text/template"

	"github.com/trezcool/academia/core"
)

var (
	welcomeSubject = "Welcome to Academia"
	welcomeTmpl    = texttmpl.Must(texttmpl.New("welcome").Parse(`Hi,

Your account has been created. Sign in at {{ .FrontendBaseURL }}/auth/login to get started.
`))

	passwordResetSubject = "Password Reset"
	passwordResetTmpl    = texttmpl.Must(texttmpl.New("passwordReset").Parse(`Hi,

You requested a password reset. Follow this link to choose a new password:

{{ .FrontendBaseURL }}/auth/password-reset/{{ .Data.UID }}/{{ .Data.Token }}

If you did not make this request, you can safely ignore this email.
`))
)

func (svc *Service) sendWelcomeMail(acct Account) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:       []mail.Address{{Address: acct.Email}},
		Subject:  welcomeSubject,
		Template: welcomeTmpl,
	})
}

func (svc *Service) sendPasswordResetMail(acct Account) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:       []mail.Address{{Address: acct.Email}},
		Subject:  passwordResetSubject,
		Template: passwordResetTmpl,
		TemplateData: struct {
			UID   string
			Token string
		}{
			UID:   EncodeUID(acct),
			Token: makeToken(acct),
		},
	})
}
