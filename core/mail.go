package core

import (
	"bytes"
	htmltmpl "html/template"
	"net/mail"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

var (
	templates   = make(tmplCache)
	templatesMu sync.RWMutex
)

type (
	tmplCacheEntry struct {
		text *texttmpl.Template
		html *htmltmpl.Template
	}
	tmplCache map[string]tmplCacheEntry // {name: entry}

	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// RegisterEmailTemplate parses and caches the text and html bodies of the named email template.
// Either body may be empty.
func RegisterEmailTemplate(name, text, html string) error {
	var entry tmplCacheEntry
	if text != "" {
		tmpl, err := texttmpl.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			return errors.Wrapf(err, "parsing %s text template", name)
		}
		entry.text = tmpl
	}
	if html != "" {
		tmpl, err := htmltmpl.New(name).Option("missingkey=error").Parse(html)
		if err != nil {
			return errors.Wrapf(err, "parsing %s html template", name)
		}
		entry.html = tmpl
	}

	templatesMu.Lock()
	templates[name] = entry
	templatesMu.Unlock()
	return nil
}

// MustRegisterEmailTemplate is like RegisterEmailTemplate but panics on error.
func MustRegisterEmailTemplate(name, text, html string) {
	if err := RegisterEmailTemplate(name, text, html); err != nil {
		panic(err)
	}
}

func (m *EmailMessage) getTemplate() (tmplCacheEntry, bool) {
	templatesMu.RLock()
	defer templatesMu.RUnlock()
	entry, ok := templates[m.TemplateName]
	return entry, ok
}

// Render fills TextContent and HTMLContent from BodyStr or the registered template.
func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" {
		return nil
	}

	entry, ok := m.getTemplate()
	if !ok {
		return errors.Errorf("email template %q not registered", m.TemplateName)
	}
	if entry.text != nil && m.TextContent == "" {
		var buff bytes.Buffer
		if err := entry.text.Execute(&buff, m.TemplateData); err != nil {
			return errors.Wrap(err, "rendering text")
		}
		m.TextContent = buff.String()
	}
	if entry.html != nil {
		var buff bytes.Buffer
		if err := entry.html.Execute(&buff, m.TemplateData); err != nil {
			return errors.Wrap(err, "rendering html")
		}
		m.HTMLContent = buff.String()
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }
