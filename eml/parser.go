package eml

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/machinefabric/exteditor-go/compose"
)

// Warning titles attached by Parse
const (
	UnknownHeadersTitle = "Unknown header(s) found"
	InvalidValueTitle   = "Invalid header value(s)"
	MalformedLineTitle  = "Malformed header line(s)"
)

// ParseOptions controls how an edited file is merged back
type ParseOptions struct {
	AllowCustomHeaders bool
	// FallbackCharset decodes files that are not valid UTF-8
	FallbackCharset string
}

// Result is an edited document merged over the request document
type Result struct {
	Details            *compose.ComposeDetails
	SendOnExit         bool
	AllowCustomHeaders bool
	Warnings           []compose.Warning
}

type field struct {
	name  string
	value string
}

type parser struct {
	base    *compose.ComposeDetails
	out     *compose.ComposeDetails
	result  *Result
	custom  []compose.CustomHeader
	unknown []string
	invalid []string
	badLine []string
}

// Parse reads an edited file and merges it over base, which is not
// modified. Only read errors are returned; problems with the content
// become warnings, and any warning cancels send-on-exit.
func Parse(r io.Reader, base *compose.ComposeDetails, opts ParseOptions) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}

	text, encWarning := decodeText(data, opts.FallbackCharset)
	fields, body, malformed := splitDocument(text)

	p := &parser{
		base: base,
		out:  base.Clone(),
		result: &Result{
			AllowCustomHeaders: opts.AllowCustomHeaders,
		},
		badLine: malformed,
	}
	p.out.To = compose.RecipientList{}
	p.out.Cc = compose.RecipientList{}
	p.out.Bcc = compose.RecipientList{}
	p.out.ReplyTo = compose.RecipientList{}
	p.out.Subject = ""
	p.out.Priority = nil
	p.out.DeliveryStatusNotification = nil
	p.out.ReturnReceipt = nil
	p.out.CustomHeaders = nil

	for _, f := range fields {
		p.apply(f.name, f.value)
	}
	p.out.SetAuthoritativeBody(body)
	p.finish(encWarning)

	p.result.Details = p.out
	return p.result, nil
}

// splitDocument splits text into unfolded header fields and the body. The
// header block ends at the first blank line; a line that is neither a
// header nor a continuation also starts the body and is reported.
func splitDocument(text string) (fields []field, body string, malformed []string) {
	rest := text
	for len(rest) > 0 {
		line, next, hasEOL := strings.Cut(rest, "\n")
		if !hasEOL {
			next = ""
		}
		trimmed := strings.TrimRight(line, "\r")

		if strings.TrimSpace(trimmed) == "" {
			return fields, next, malformed
		}

		if (trimmed[0] == ' ' || trimmed[0] == '\t') && len(fields) > 0 {
			last := &fields[len(fields)-1]
			last.value = strings.TrimSpace(last.value + " " + strings.TrimSpace(trimmed))
			rest = next
			continue
		}

		name, value, ok := strings.Cut(trimmed, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			malformed = append(malformed, strings.TrimSpace(trimmed))
			return fields, rest, malformed
		}
		fields = append(fields, field{name: name, value: strings.TrimSpace(value)})
		rest = next
	}
	return fields, "", malformed
}

func (p *parser) apply(name, value string) {
	switch strings.ToLower(name) {
	case strings.ToLower(HeaderHelp):
	case "from":
		if value == "" {
			return
		}
		r, err := compose.ParseRecipient(value)
		if err != nil {
			p.invalidValue(name, value)
			return
		}
		p.out.From = &r
	case "to":
		p.addRecipient(&p.out.To, name, value)
	case "cc":
		p.addRecipient(&p.out.Cc, name, value)
	case "bcc":
		p.addRecipient(&p.out.Bcc, name, value)
	case "reply-to":
		p.addRecipient(&p.out.ReplyTo, name, value)
	case "subject":
		p.out.Subject = value
	case strings.ToLower(HeaderMeta):
		p.applyMeta(value)
	case strings.ToLower(HeaderCustomHeader), strings.ToLower(legacyXHeader):
		if value == "" {
			return
		}
		n, v, ok := strings.Cut(value, ":")
		n = strings.TrimSpace(n)
		if !ok || n == "" {
			p.invalid = append(p.invalid, fmt.Sprintf("%s: %s", name, value))
			return
		}
		p.custom = append(p.custom, compose.CustomHeader{Name: n, Value: strings.TrimSpace(v)})
	default:
		if !p.applySetting(name, value) {
			p.addCustom(name, value)
		}
	}
}

// applySetting handles the X-ExtEditorR settings headers. It reports
// whether name was one of them.
func (p *parser) applySetting(name, value string) bool {
	switch strings.ToLower(name) {
	case strings.ToLower(HeaderPriority):
		if value == "" {
			return true
		}
		pr, err := compose.ParsePriority(value)
		if err != nil {
			p.invalidValue(name, value)
			if p.base.Priority != nil {
				p.out.Priority = compose.Ptr(*p.base.Priority)
			}
			return true
		}
		p.out.Priority = &pr
	case strings.ToLower(HeaderDeliveryFormat):
		inner, bracketed := unbracket(value)
		if bracketed || inner == "" {
			return true
		}
		f, err := compose.ParseDeliveryFormat(inner)
		if err != nil {
			p.invalidValue(name, value)
			return true
		}
		p.out.DeliveryFormat = &f
	case strings.ToLower(HeaderAttachVCard):
		inner, bracketed := unbracket(value)
		if bracketed || inner == "" {
			return true
		}
		if b, ok := p.parseBool(name, inner); ok {
			p.out.AttachVCard = &b
		}
	case strings.ToLower(HeaderDSN):
		p.out.DeliveryStatusNotification = p.optionalBool(name, value, p.base.DeliveryStatusNotification)
	case strings.ToLower(HeaderReturnReceipt):
		p.out.ReturnReceipt = p.optionalBool(name, value, p.base.ReturnReceipt)
	case strings.ToLower(HeaderSendOnExit):
		if b, ok := p.parseBool(name, value); ok {
			p.result.SendOnExit = b
		}
	case strings.ToLower(HeaderAllowCustomHeaders), strings.ToLower(legacyAllowXHeaders):
		if b, ok := p.parseBool(name, value); ok && b {
			p.result.AllowCustomHeaders = true
		}
	default:
		return false
	}
	return true
}

func (p *parser) applyMeta(value string) {
	pairs, malformed := unfoldMeta(value)
	for _, m := range malformed {
		p.invalid = append(p.invalid, fmt.Sprintf("%s: %s", HeaderMeta, m))
	}
	for _, pair := range pairs {
		if header, ok := metaKeyHeaders[strings.ToLower(pair.key)]; ok {
			p.applySetting(header, pair.value)
			continue
		}
		p.addCustom(pair.key, pair.value)
	}
}

func (p *parser) addRecipient(list *compose.RecipientList, name, value string) {
	if value == "" {
		return
	}
	r, err := compose.ParseRecipient(value)
	if err != nil {
		p.invalidValue(name, value)
		return
	}
	*list = append(*list, r)
}

func (p *parser) addCustom(name, value string) {
	if !IsCustomHeaderName(name) {
		p.unknown = append(p.unknown, name)
		return
	}
	p.custom = append(p.custom, compose.CustomHeader{Name: name, Value: value})
}

func (p *parser) parseBool(name, value string) (bool, bool) {
	b, err := strconv.ParseBool(strings.ToLower(value))
	if err != nil {
		p.invalidValue(name, value)
		return false, false
	}
	return b, true
}

// optionalBool parses a tri-state flag: empty means absent, an invalid
// value keeps fallback
func (p *parser) optionalBool(name, value string, fallback *bool) *bool {
	if value == "" {
		return nil
	}
	b, ok := p.parseBool(name, value)
	if !ok {
		if fallback == nil {
			return nil
		}
		return compose.Ptr(*fallback)
	}
	return &b
}

func (p *parser) invalidValue(name, value string) {
	p.invalid = append(p.invalid, fmt.Sprintf("%s: %s", name, value))
}

func (p *parser) finish(encWarning *compose.Warning) {
	var warnings []compose.Warning
	if encWarning != nil {
		warnings = append(warnings, *encWarning)
	}

	if p.result.AllowCustomHeaders {
		for _, h := range p.custom {
			p.out.SetCustomHeader(h.Name, h.Value)
		}
	} else {
		for _, h := range p.custom {
			p.unknown = append(p.unknown, h.Name)
		}
	}

	if len(p.unknown) > 0 {
		msg := "ExtEditorR did not recognise the following headers:\n- " + strings.Join(p.unknown, "\n- ")
		if len(p.custom) > 0 && !p.result.AllowCustomHeaders {
			msg += "\nCustom headers are disabled. Enable them in the settings or set " +
				HeaderAllowCustomHeaders + ": true."
		}
		warnings = append(warnings, compose.Warning{Title: UnknownHeadersTitle, Message: msg})
	}
	if len(p.invalid) > 0 {
		warnings = append(warnings, compose.Warning{
			Title:   InvalidValueTitle,
			Message: "The following values were ignored:\n- " + strings.Join(p.invalid, "\n- "),
		})
	}
	if len(p.badLine) > 0 {
		warnings = append(warnings, compose.Warning{
			Title: MalformedLineTitle,
			Message: "A line in the header block is not a header, so the body was assumed to start there:\n- " +
				strings.Join(p.badLine, "\n- "),
		})
	}

	if len(warnings) > 0 {
		p.result.SendOnExit = false
	}
	p.result.Warnings = warnings
}
