package mailer

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmltmpl "html/template"
	"net/mail"
	"sync"
	texttmpl "text/template"
)

var ErrNoRecipient = errors.New("mailer: message has no recipient")

//go:embed templates/*
var templateFS embed.FS

var (
	tmplOnce sync.Once
	tmplErr  error
	textTmpl *texttmpl.Template
	htmlTmpl *htmltmpl.Template
)

// Message one outgoing email. When TemplateName is set, TextContent and
// HTMLContent are rendered from templates/<name>.txt and .gohtml.
type Message struct {
	To      mail.Address
	Subject string

	TemplateName string
	TemplateData any

	TextContent string
	HTMLContent string
}

func loadTemplates() {
	textTmpl, tmplErr = texttmpl.ParseFS(templateFS, "templates/*.txt")
	if tmplErr != nil {
		return
	}
	htmlTmpl, tmplErr = htmltmpl.ParseFS(templateFS, "templates/*.gohtml")
}

// Render fills TextContent and HTMLContent from the named templates
func (m *Message) Render() error {
	if m.To.Address == "" {
		return ErrNoRecipient
	}
	if m.TemplateName == "" {
		return nil
	}

	tmplOnce.Do(loadTemplates)
	if tmplErr != nil {
		return fmt.Errorf("mailer: parsing templates: %w", tmplErr)
	}

	var buf bytes.Buffer
	if err := textTmpl.ExecuteTemplate(&buf, m.TemplateName+".txt", m.TemplateData); err != nil {
		return fmt.Errorf("mailer: rendering %s.txt: %w", m.TemplateName, err)
	}
	m.TextContent = buf.String()

	buf.Reset()
	if err := htmlTmpl.ExecuteTemplate(&buf, m.TemplateName+".gohtml", m.TemplateData); err != nil {
		return fmt.Errorf("mailer: rendering %s.gohtml: %w", m.TemplateName, err)
	}
	m.HTMLContent = buf.String()

	return nil
}

// TutoringAssignedData fields of the tutoring_assigned template
type TutoringAssignedData struct {
	StudentName string
	SubjectName string
	TeacherName string
	SectionName string
	Grade       string
}
