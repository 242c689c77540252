package mailer

import (
	"bytes"
	"html/template"
	"time"

	"github.com/dmitrijs2005/bvchub/internal/server/models"
)

const layout = `{{define "layout"}}<div style="font-family:Arial,sans-serif;padding:20px;border:1px solid #e2e8f0;border-radius:10px;">
{{template "content" .}}
<hr style="border:none;border-top:1px solid #eee;margin:20px 0;"/>
<small style="color:#64748b;">This is an automated email from BVC Digital Hub.</small>
</div>{{end}}`

var templates = map[string]*template.Template{
	"otp": mustParse(`{{define "content"}}<h2 style="color:#4f46e5">Verify your email</h2>
<p>Hi {{.Name}},</p>
<p>Your BVC Digital Hub verification code is:</p>
<p style="font-size:28px;letter-spacing:6px;"><b>{{.Code}}</b></p>
<p>The code expires in {{.Minutes}} minutes. If you did not sign up, ignore this email.</p>{{end}}`),

	"application": mustParse(`{{define "content"}}<h2>Application Received</h2>
<p>Dear {{.Name}},</p>
<p>Thank you for applying for <b>{{.Job.Title}}</b>{{with .Job.Company}} at <b>{{.}}</b>{{end}} through <b>BVC Digital Hub</b>.</p>
<p>Your application has been submitted successfully.</p>
{{with .Phone}}<p><b>Contact Number:</b> {{.}}</p>{{end}}
<p>Our team will review your profile and contact you if shortlisted.</p>
<p>Best Regards,<br/><b>BVC Digital Hub Placement Team</b></p>{{end}}`),

	"event": mustParse(`{{define "content"}}<h2 style="color:#4f46e5">{{if .Updated}}Event Updated{{else}}New Event Announced{{end}}</h2>
<p><strong>{{.Event.Title}}</strong></p>
<p>{{.Event.Description}}</p>
<p><b>Date:</b> {{date .Event.Date}}<br/>
{{with .Event.Time}}<b>Time:</b> {{.}}<br/>{{end}}
{{with .Event.Location}}<b>Location:</b> {{.}}{{end}}</p>
<p>Please login to <b>BVC Digital Hub</b> for more details.</p>{{end}}`),

	"job": mustParse(`{{define "content"}}<h2 style="color:#16a34a">{{if .Updated}}Job Updated{{else}}New Job Opportunity{{end}}</h2>
<p><strong>{{.Job.Title}}</strong>{{with .Job.Company}} at {{.}}{{end}}</p>
<p>{{.Job.Description}}</p>
<p>{{with .Job.Location}}<b>Location:</b> {{.}}<br/>{{end}}
{{with .Job.Type}}<b>Type:</b> {{.}}<br/>{{end}}
{{with .Job.Salary}}<b>Salary:</b> {{.}}<br/>{{end}}
{{with .Job.Deadline}}<b>Apply by:</b> {{date .}}{{end}}</p>
<p>Please login to <b>BVC Digital Hub</b> to apply.</p>{{end}}`),
}

var funcs = template.FuncMap{
	"date": func(v any) string {
		switch t := v.(type) {
		case time.Time:
			return t.Format("Mon Jan 2 2006")
		case *time.Time:
			if t != nil {
				return t.Format("Mon Jan 2 2006")
			}
		}
		return ""
	},
}

func mustParse(content string) *template.Template {
	t := template.Must(template.New("mail").Funcs(funcs).Parse(layout))
	return template.Must(t.Parse(content))
}

func render(name string, data any) (string, error) {
	var b bytes.Buffer
	if err := templates[name].ExecuteTemplate(&b, "layout", data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// OTPEmail renders the signup verification mail.
func OTPEmail(name, code string, ttl time.Duration) (subject, html string, err error) {
	html, err = render("otp", struct {
		Name, Code string
		Minutes    int
	}{name, code, int(ttl.Minutes())})
	return "Your BVC Digital Hub verification code", html, err
}

// ApplicationEmail renders the receipt sent to a job applicant.
func ApplicationEmail(name, phone string, job *models.Job) (subject, html string, err error) {
	html, err = render("application", struct {
		Name, Phone string
		Job         *models.Job
	}{name, phone, job})
	return "Job Application Submitted Successfully", html, err
}

// EventEmail renders the broadcast for a created or updated event.
func EventEmail(e *models.Event, updated bool) (subject, html string, err error) {
	html, err = render("event", struct {
		Event   *models.Event
		Updated bool
	}{e, updated})
	subject = "New Event: " + e.Title
	if updated {
		subject = "Updated Event: " + e.Title
	}
	return subject, html, err
}

// JobEmail renders the broadcast for a created or updated job.
func JobEmail(j *models.Job, updated bool) (subject, html string, err error) {
	html, err = render("job", struct {
		Job     *models.Job
		Updated bool
	}{j, updated})
	subject = "New Job: " + j.Title
	if updated {
		subject = "Updated Job: " + j.Title
	}
	return subject, html, err
}
