package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Every email shares one visual grammar: header, greeting, intro, an optional
// callout box with label/value rows, an optional tips list, one CTA button,
// and a footer. Each catalogue entry only supplies the content.

type calloutStyle string

const (
	calloutInfo calloutStyle = "info"
	calloutWarn calloutStyle = "warn"
)

type row struct {
	Label string
	Value string
}

type view struct {
	Subject       string
	Heading       string
	RecipientName string
	Intro         string
	CalloutTitle  string
	CalloutStyle  calloutStyle
	Rows          []row
	Tips          []string
	TipsTitle     string
	CTALabel      string
	CTAURL        string
	Outro         string
}

const layoutHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#f4f5f7;font-family:Arial,Helvetica,sans-serif;">
<table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="background-color:#f4f5f7;padding:24px 0;">
<tr><td align="center">
<table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;overflow:hidden;">
<tr>
<td style="background-color:#1f3a5f;padding:24px 32px;">
<h1 style="margin:0;color:#ffffff;font-size:22px;">{{.Heading}}</h1>
</td>
</tr>
<tr>
<td style="padding:28px 32px 8px 32px;">
<p style="margin:0 0 12px 0;color:#1a1a1a;font-size:16px;">Hi {{.RecipientName}},</p>
<p style="margin:0 0 16px 0;color:#444444;font-size:15px;line-height:1.5;">{{.Intro}}</p>
</td>
</tr>
{{if .Rows}}
<tr>
<td style="padding:0 32px;">
<table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="background-color:{{if eq .CalloutStyle "warn"}}#fff8e6{{else}}#eef4fb{{end}};border-left:4px solid {{if eq .CalloutStyle "warn"}}#e6a817{{else}}#2b6cb0{{end}};border-radius:4px;">
{{if .CalloutTitle}}<tr><td style="padding:14px 18px 2px 18px;color:#1a1a1a;font-size:14px;font-weight:bold;">{{.CalloutTitle}}</td></tr>{{end}}
{{range .Rows}}
<tr><td style="padding:5px 18px;color:#333333;font-size:14px;"><strong>{{.Label}}:</strong> {{.Value}}</td></tr>
{{end}}
<tr><td style="padding:6px;"></td></tr>
</table>
</td>
</tr>
{{end}}
{{if .Tips}}
<tr>
<td style="padding:16px 32px 0 32px;">
{{if .TipsTitle}}<p style="margin:0 0 8px 0;color:#1a1a1a;font-size:14px;font-weight:bold;">{{.TipsTitle}}</p>{{end}}
<ul style="margin:0;padding-left:20px;color:#444444;font-size:14px;line-height:1.6;">
{{range .Tips}}<li>{{.}}</li>
{{end}}</ul>
</td>
</tr>
{{end}}
<tr>
<td align="center" style="padding:28px 32px;">
<a href="{{.CTAURL}}" style="display:inline-block;background-color:#2b6cb0;color:#ffffff;text-decoration:none;padding:12px 28px;border-radius:6px;font-size:15px;font-weight:bold;">{{.CTALabel}}</a>
</td>
</tr>
{{if .Outro}}
<tr>
<td style="padding:0 32px 20px 32px;">
<p style="margin:0;color:#666666;font-size:13px;line-height:1.5;">{{.Outro}}</p>
</td>
</tr>
{{end}}
<tr>
<td style="background-color:#f4f5f7;padding:18px 32px;">
<p style="margin:0;color:#888888;font-size:12px;">You are receiving this email because you have a CareerHub account.<br>&copy; CareerHub. All rights reserved.</p>
</td>
</tr>
</table>
</td></tr>
</table>
</body>
</html>`

var layoutTmpl = template.Must(template.New("layout").Parse(layoutHTML))

func renderLayout(v view) (string, error) {
	// Rows with empty values are omitted entirely so optional payload
	// fields (location, meeting link) never leave an empty label behind.
	kept := v.Rows[:0:0]
	for _, r := range v.Rows {
		if r.Value != "" {
			kept = append(kept, r)
		}
	}
	v.Rows = kept

	if v.RecipientName == "" {
		v.RecipientName = "there"
	}

	var buf bytes.Buffer
	if err := layoutTmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render layout: %w", err)
	}
	return buf.String(), nil
}
