package compose

import (
	"fmt"
	"strings"
)

// Priority is the message priority offered by the compose window
type Priority string

const (
	PriorityLowest  Priority = "lowest"
	PriorityLow     Priority = "low"
	PriorityNormal  Priority = "normal"
	PriorityHigh    Priority = "high"
	PriorityHighest Priority = "highest"
)

// Priorities lists the accepted priority levels in ascending order
var Priorities = []Priority{PriorityLowest, PriorityLow, PriorityNormal, PriorityHigh, PriorityHighest}

// ParsePriority parses a priority level case-insensitively
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Priorities {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// DeliveryFormat selects how the message body is sent
type DeliveryFormat string

const (
	DeliveryAuto      DeliveryFormat = "auto"
	DeliveryPlainText DeliveryFormat = "plaintext"
	DeliveryHTML      DeliveryFormat = "html"
	DeliveryBoth      DeliveryFormat = "both"
)

// DeliveryFormats lists the accepted delivery formats
var DeliveryFormats = []DeliveryFormat{DeliveryAuto, DeliveryPlainText, DeliveryHTML, DeliveryBoth}

// ParseDeliveryFormat parses a delivery format case-insensitively
func ParseDeliveryFormat(s string) (DeliveryFormat, error) {
	f := DeliveryFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range DeliveryFormats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown delivery format %q", s)
}

// RecipientNodeType identifies an address book entry kind
type RecipientNodeType string

const (
	NodeContact     RecipientNodeType = "contact"
	NodeMailingList RecipientNodeType = "mailingList"
)
