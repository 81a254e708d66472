package mailer

import (
	"bytes"
	"fmt"
	htmltpl "html/template"
)

var welcomeHTML = htmltpl.Must(htmltpl.New("welcome").Parse(`
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Welcome to {{.AppName}}, {{.Username}}!</h2>
  <p>Your account is ready. Create a room, pick a topic, and start a conversation.</p>
  <p style="color:#888; font-size: 12px;">You received this email because an account
  was registered for {{.Email}}. If this wasn't you, you can ignore it.</p>
</body>
</html>
`))

// Render produces subject, text, and HTML bodies for a named template.
// Unknown template names are an error so the worker can dead-letter the job.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case "welcome":
		username := fmt.Sprintf("%v", data["Username"])
		appName := fmt.Sprintf("%v", data["AppName"])
		subject = fmt.Sprintf("Welcome to %s", appName)
		text = fmt.Sprintf("Welcome to %s, %s! Your account is ready.", appName, username)
		var buf bytes.Buffer
		if rerr := welcomeHTML.Execute(&buf, data); rerr != nil {
			return "", "", "", rerr
		}
		html = buf.String()
		return subject, text, html, nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}
