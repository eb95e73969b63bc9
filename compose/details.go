// Package compose defines the compose document exchanged with the mail
// client and the messages that carry it.
package compose

import (
	"encoding/json"
	"strings"
)

// CustomHeader is a user-defined header carried with the message
type CustomHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Attachment is attachment metadata. Content is never transferred.
type Attachment struct {
	ID          json.RawMessage `json:"id,omitempty"`
	Name        string          `json:"name"`
	Size        int64           `json:"size,omitempty"`
	ContentType string          `json:"contentType,omitempty"`
}

// ComposeDetails is the state of one compose window
type ComposeDetails struct {
	From             *Recipient      `json:"from,omitempty"`
	To               RecipientList   `json:"to"`
	Cc               RecipientList   `json:"cc"`
	Bcc              RecipientList   `json:"bcc"`
	ReplyTo          RecipientList   `json:"replyTo"`
	FollowupTo       json.RawMessage `json:"followupTo,omitempty"`
	Newsgroups       json.RawMessage `json:"newsgroups,omitempty"`
	Type             string          `json:"type,omitempty"`
	RelatedMessageID json.RawMessage `json:"relatedMessageId,omitempty"`
	Subject          string          `json:"subject"`
	IsPlainText      bool            `json:"isPlainText"`
	Body             *string         `json:"body,omitempty"`
	PlainTextBody    *string         `json:"plainTextBody,omitempty"`

	Priority                   *Priority       `json:"priority,omitempty"`
	DeliveryFormat             *DeliveryFormat `json:"deliveryFormat,omitempty"`
	AttachVCard                *bool           `json:"attachVCard,omitempty"`
	DeliveryStatusNotification *bool           `json:"deliveryStatusNotification,omitempty"`
	ReturnReceipt              *bool           `json:"returnReceipt,omitempty"`

	CustomHeaders []CustomHeader `json:"customHeaders,omitempty"`
	Attachments   []Attachment   `json:"attachments"`
}

// AuthoritativeBody returns the body selected by IsPlainText
func (d *ComposeDetails) AuthoritativeBody() string {
	p := d.Body
	if d.IsPlainText {
		p = d.PlainTextBody
	}
	if p == nil {
		return ""
	}
	return *p
}

// SetAuthoritativeBody replaces the body selected by IsPlainText and drops
// the other one, which cannot be reconstructed from editor text.
func (d *ComposeDetails) SetAuthoritativeBody(body string) {
	if d.IsPlainText {
		d.PlainTextBody = &body
		d.Body = nil
	} else {
		d.Body = &body
		d.PlainTextBody = nil
	}
}

// CustomHeader looks up a custom header by name, case-insensitively
func (d *ComposeDetails) CustomHeader(name string) (CustomHeader, bool) {
	for _, h := range d.CustomHeaders {
		if strings.EqualFold(h.Name, name) {
			return h, true
		}
	}
	return CustomHeader{}, false
}

// SetCustomHeader adds or replaces a custom header, keeping insertion order
func (d *ComposeDetails) SetCustomHeader(name, value string) {
	for i, h := range d.CustomHeaders {
		if strings.EqualFold(h.Name, name) {
			d.CustomHeaders[i].Value = value
			return
		}
	}
	d.CustomHeaders = append(d.CustomHeaders, CustomHeader{Name: name, Value: value})
}

// Clone returns a deep copy
func (d *ComposeDetails) Clone() *ComposeDetails {
	c := *d
	c.From = cloneRecipient(d.From)
	c.To = cloneRecipients(d.To)
	c.Cc = cloneRecipients(d.Cc)
	c.Bcc = cloneRecipients(d.Bcc)
	c.ReplyTo = cloneRecipients(d.ReplyTo)
	c.FollowupTo = cloneRaw(d.FollowupTo)
	c.Newsgroups = cloneRaw(d.Newsgroups)
	c.RelatedMessageID = cloneRaw(d.RelatedMessageID)
	c.Body = clonePtr(d.Body)
	c.PlainTextBody = clonePtr(d.PlainTextBody)
	c.Priority = clonePtr(d.Priority)
	c.DeliveryFormat = clonePtr(d.DeliveryFormat)
	c.AttachVCard = clonePtr(d.AttachVCard)
	c.DeliveryStatusNotification = clonePtr(d.DeliveryStatusNotification)
	c.ReturnReceipt = clonePtr(d.ReturnReceipt)
	if d.CustomHeaders != nil {
		c.CustomHeaders = append([]CustomHeader(nil), d.CustomHeaders...)
	}
	if d.Attachments != nil {
		c.Attachments = append([]Attachment(nil), d.Attachments...)
	}
	return &c
}

func cloneRecipient(r *Recipient) *Recipient {
	if r == nil {
		return nil
	}
	out := *r
	if r.Node != nil {
		n := *r.Node
		out.Node = &n
	}
	return &out
}

func cloneRecipients(l RecipientList) RecipientList {
	if l == nil {
		return nil
	}
	out := make(RecipientList, len(l))
	for i, r := range l {
		out[i] = r
		if r.Node != nil {
			n := *r.Node
			out[i].Node = &n
		}
	}
	return out
}

func cloneRaw(r json.RawMessage) json.RawMessage {
	if r == nil {
		return nil
	}
	return append(json.RawMessage(nil), r...)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
