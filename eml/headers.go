// Package eml converts compose documents to and from the editable
// RFC822-like text handed to the external editor.
package eml

import (
	"runtime"
	"strings"

	"github.com/machinefabric/exteditor-go/compose"
)

// Header names written to and recognised in the edited file
const (
	HeaderFrom    = "From"
	HeaderTo      = "To"
	HeaderCc      = "Cc"
	HeaderBcc     = "Bcc"
	HeaderReplyTo = "Reply-To"
	HeaderSubject = "Subject"

	HeaderPriority           = "X-ExtEditorR-Priority"
	HeaderDeliveryFormat     = "X-ExtEditorR-Delivery-Format"
	HeaderAttachVCard        = "X-ExtEditorR-Attach-vCard"
	HeaderDSN                = "X-ExtEditorR-Delivery-Status-Notification"
	HeaderReturnReceipt      = "X-ExtEditorR-Return-Receipt"
	HeaderSendOnExit         = "X-ExtEditorR-Send-On-Exit"
	HeaderAllowCustomHeaders = "X-ExtEditorR-Allow-Custom-Headers"
	HeaderCustomHeader       = "X-ExtEditorR-Custom-Header"
	HeaderHelp               = "X-ExtEditorR-Help"
	HeaderMeta               = "X-Meta"

	legacyAllowXHeaders = "X-ExtEditorR-Allow-X-Headers"
	legacyXHeader       = "X-ExtEditorR-X-Header"
)

// Keys of the X-Meta header
const (
	metaPriority           = "priority"
	metaDeliveryFormat     = "delivery-format"
	metaAttachVCard        = "attach-vcard"
	metaDSN                = "dsn"
	metaReturnReceipt      = "return-receipt"
	metaSendOnExit         = "send-on-exit"
	metaAllowCustomHeaders = "allow-custom-headers"
)

var metaKeyHeaders = map[string]string{
	metaPriority:           HeaderPriority,
	metaDeliveryFormat:     HeaderDeliveryFormat,
	metaAttachVCard:        HeaderAttachVCard,
	metaDSN:                HeaderDSN,
	metaReturnReceipt:      HeaderReturnReceipt,
	metaSendOnExit:         HeaderSendOnExit,
	metaAllowCustomHeaders: HeaderAllowCustomHeaders,
}

var knownHeaders = map[string]bool{}

func init() {
	for _, h := range []string{
		HeaderFrom, HeaderTo, HeaderCc, HeaderBcc, HeaderReplyTo, HeaderSubject,
		HeaderPriority, HeaderDeliveryFormat, HeaderAttachVCard, HeaderDSN, HeaderReturnReceipt,
		HeaderSendOnExit, HeaderAllowCustomHeaders, HeaderCustomHeader, HeaderHelp, HeaderMeta,
		legacyAllowXHeaders, legacyXHeader,
	} {
		knownHeaders[strings.ToLower(h)] = true
	}
}

// IsKnownHeader reports whether name is interpreted by the codec rather
// than carried as a custom header
func IsKnownHeader(name string) bool {
	return knownHeaders[strings.ToLower(name)]
}

// IsCustomHeaderName reports whether name may be carried as a custom header
func IsCustomHeaderName(name string) bool {
	return len(name) > 2 && strings.EqualFold(name[:2], "X-")
}

// Options controls serialization
type Options struct {
	SendOnExit         bool
	AllowCustomHeaders bool
	SuppressHelp       bool
	MetaHeaders        bool
	// LineEnding defaults to the platform convention
	LineEnding string
}

// OptionsFrom derives serialization options from a request configuration
func OptionsFrom(cfg compose.Configuration) Options {
	return Options{
		SendOnExit:         cfg.SendOnExit,
		AllowCustomHeaders: cfg.AllowCustomHeaders,
		SuppressHelp:       cfg.SuppressHelpHeaders,
		MetaHeaders:        cfg.MetaHeaders,
	}
}

// PlatformLineEnding returns CRLF on Windows and LF elsewhere
func PlatformLineEnding() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

func bracket(s string) string {
	return "[" + s + "]"
}

func unbracket(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		return strings.TrimSpace(s[1 : len(s)-1]), true
	}
	return s, false
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func formatOptionalBool(b *bool) string {
	if b == nil {
		return ""
	}
	return formatBool(*b)
}
