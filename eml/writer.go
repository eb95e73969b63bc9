package eml

import (
	"bufio"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/machinefabric/exteditor-go/compose"
)

type lineWriter struct {
	w   *bufio.Writer
	eol string
}

func (lw *lineWriter) header(name, value string) {
	lw.w.WriteString(name)
	lw.w.WriteString(": ")
	lw.w.WriteString(value)
	lw.w.WriteString(lw.eol)
}

type setting struct {
	metaKey string
	header  string
	value   string
}

// Write serializes d as an editable document: header lines, a blank line,
// then the authoritative body.
func Write(w io.Writer, d *compose.ComposeDetails, opts Options) error {
	eol := opts.LineEnding
	if eol == "" {
		eol = PlatformLineEnding()
	}
	lw := &lineWriter{w: bufio.NewWriter(w), eol: eol}

	lw.header(HeaderFrom, senderOf(d))
	writeRecipients(lw, HeaderTo, d.To)
	writeRecipients(lw, HeaderCc, d.Cc)
	writeRecipients(lw, HeaderBcc, d.Bcc)
	writeRecipients(lw, HeaderReplyTo, d.ReplyTo)
	lw.header(HeaderSubject, d.Subject)

	settings := settingsOf(d, opts)
	folded := opts.MetaHeaders && canFold(settings, d.CustomHeaders)
	if folded {
		lw.header(HeaderMeta, foldMeta(settings, d.CustomHeaders))
	} else {
		for _, s := range settings {
			lw.header(s.header, s.value)
		}
		for _, h := range d.CustomHeaders {
			if IsKnownHeader(h.Name) || !IsCustomHeaderName(h.Name) {
				lw.header(HeaderCustomHeader, h.Name+": "+h.Value)
				continue
			}
			lw.header(h.Name, h.Value)
		}
	}

	if !opts.SuppressHelp {
		for _, line := range helpLines(d, folded) {
			lw.header(HeaderHelp, line)
		}
	}

	lw.w.WriteString(eol)
	lw.w.WriteString(d.AuthoritativeBody())
	return lw.w.Flush()
}

func senderOf(d *compose.ComposeDetails) string {
	if d.From == nil {
		return ""
	}
	return d.From.String()
}

func writeRecipients(lw *lineWriter, name string, list compose.RecipientList) {
	if len(list) == 0 {
		lw.header(name, "")
		return
	}
	for _, r := range list {
		lw.header(name, r.String())
	}
}

func settingsOf(d *compose.ComposeDetails, opts Options) []setting {
	priority := ""
	if d.Priority != nil {
		priority = string(*d.Priority)
	}
	format := compose.DeliveryAuto
	if d.DeliveryFormat != nil {
		format = *d.DeliveryFormat
	}
	vcard := ""
	if d.AttachVCard != nil {
		vcard = bracket(formatBool(*d.AttachVCard))
	}
	return []setting{
		{metaPriority, HeaderPriority, priority},
		{metaDeliveryFormat, HeaderDeliveryFormat, bracket(string(format))},
		{metaAttachVCard, HeaderAttachVCard, vcard},
		{metaDSN, HeaderDSN, formatOptionalBool(d.DeliveryStatusNotification)},
		{metaReturnReceipt, HeaderReturnReceipt, formatOptionalBool(d.ReturnReceipt)},
		{metaSendOnExit, HeaderSendOnExit, formatBool(opts.SendOnExit)},
		{metaAllowCustomHeaders, HeaderAllowCustomHeaders, formatBool(opts.AllowCustomHeaders || len(d.CustomHeaders) > 0)},
	}
}

var helpText = []string{
	"Use one address per `To/Cc/Bcc/Reply-To` header",
	"    (e.g. two recipients require two `To:` headers).",
	"Remove surrounding brackets from header values",
	"    to override default settings.",
	"Custom header names must start with \"X-\".",
}

func helpLines(d *compose.ComposeDetails, folded bool) []string {
	lines := append([]string(nil), helpText...)
	if folded {
		lines = append(lines, "Settings are folded into the "+HeaderMeta+" header as key=value pairs.")
	}

	priorities := make([]string, len(compose.Priorities))
	for i, p := range compose.Priorities {
		priorities[i] = string(p)
	}
	formats := make([]string, len(compose.DeliveryFormats))
	for i, f := range compose.DeliveryFormats {
		formats[i] = string(f)
	}
	table := [][2]string{
		{"Priority:", strings.Join(priorities, ", ")},
		{"Delivery-Format:", strings.Join(formats, ", ")},
	}
	if empty := placeholders(d); len(empty) > 0 {
		table = append(table, [2]string{"Empty:", strings.Join(empty, ", ")})
	}

	width := 0
	for _, row := range table {
		width = max(width, runewidth.StringWidth(row[0]))
	}
	for _, row := range table {
		lines = append(lines, runewidth.FillRight(row[0], width+2)+row[1])
	}

	return append(lines, "KEEP blank line below to separate headers from body.")
}

// placeholders lists the headers that were written without a value
func placeholders(d *compose.ComposeDetails) []string {
	var out []string
	if d.From == nil || d.From.IsEmpty() {
		out = append(out, HeaderFrom)
	}
	for _, rl := range []struct {
		name string
		list compose.RecipientList
	}{{HeaderTo, d.To}, {HeaderCc, d.Cc}, {HeaderBcc, d.Bcc}, {HeaderReplyTo, d.ReplyTo}} {
		if len(rl.list) == 0 {
			out = append(out, rl.name)
		}
	}
	if d.Subject == "" {
		out = append(out, HeaderSubject)
	}
	if d.Priority == nil {
		out = append(out, "Priority")
	}
	if d.AttachVCard == nil {
		out = append(out, "Attach-vCard")
	}
	if d.DeliveryStatusNotification == nil {
		out = append(out, "Delivery-Status-Notification")
	}
	if d.ReturnReceipt == nil {
		out = append(out, "Return-Receipt")
	}
	return out
}
