package workflow

import (
	"net/url"
	"strings"
	texttmpl "text/template"
)

// Derived text artifacts offered for one-click copy after a successful
// flow. They are composed here, never auto-sent anywhere.

var (
	onboardingTmpl = texttmpl.Must(texttmpl.New("onboarding").Parse(
		"Your code is {{.Code}}\n\nGo to {{.AppURL}} and enter your code to access your lessons.\n\nSave this message! 🔥",
	))

	lessonNotifTmpl = texttmpl.Must(texttmpl.New("lessonNotif").Parse(
		"Hey {{.Name}}! Your {{.Subject}} lesson is ready 🔥\n\nGo to {{.AppURL}} → enter your code: {{.Code}}\n\nEnjoy!",
	))
)

func render(tmpl *texttmpl.Template, data interface{}) string {
	var b strings.Builder
	// templates are static; rendering string fields cannot fail
	_ = tmpl.Execute(&b, data)
	return b.String()
}

// OnboardingMessage is what the admin forwards to a freshly added student.
func OnboardingMessage(code, appURL string) string {
	return render(onboardingTmpl, struct{ Code, AppURL string }{code, appURL})
}

// LessonNotification tells a student their lesson is up.
func LessonNotification(name, subject, code, appURL string) string {
	return render(lessonNotifTmpl, struct{ Name, Subject, Code, AppURL string }{name, subject, code, appURL})
}

// ReferralLink builds the wa.me deep link a referrer shares, with their
// code name pre-filled in the message. ok=false when no WhatsApp number is
// configured; the caller reports the link as unavailable instead of handing
// out a broken one.
func ReferralLink(whatsAppNumber, codeName string) (string, bool) {
	if whatsAppNumber == "" {
		return "", false
	}
	return "wa.me/" + whatsAppNumber + "?text=Hey!%20I%20need%20a%20lesson%20-%20ref%3A" + url.QueryEscape(codeName), true
}
