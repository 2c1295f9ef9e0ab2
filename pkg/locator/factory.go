package locator

import (
	"encoding/json"

	"github.com/open-cli-collective/locator-cli/pkg/selector"
)

// Base is what a generated call is applied to.
type Base string

const (
	BasePage         Base = "page"
	BaseLocator      Base = "locator"
	BaseFrameLocator Base = "frame-locator"
)

// Kind is the locator call being generated.
type Kind string

const (
	KindDefault      Kind = "default"
	KindFrameLocator Kind = "frame-locator"
	KindFrame        Kind = "frame"
	KindNth          Kind = "nth"
	KindFirst        Kind = "first"
	KindLast         Kind = "last"
	KindVisible      Kind = "visible"
	KindRole         Kind = "role"
	KindHasText      Kind = "has-text"
	KindHasNotText   Kind = "has-not-text"
	KindHas          Kind = "has"
	KindHasNot       Kind = "hasNot"
	KindAnd          Kind = "and"
	KindOr           Kind = "or"
	KindChain        Kind = "chain"
	KindTestID       Kind = "test-id"
	KindText         Kind = "text"
	KindAlt          Kind = "alt"
	KindPlaceholder  Kind = "placeholder"
	KindLabel        Kind = "label"
	KindTitle        Kind = "title"
)

// Body is the argument of a locator call: plain text or a pattern.
type Body struct {
	Text    string
	Pattern *selector.Pattern
}

// TextBody returns a plain text body.
func TextBody(s string) Body { return Body{Text: s} }

// PatternBody returns a pattern body.
func PatternBody(p selector.Pattern) Body { return Body{Pattern: &p} }

// IsPattern reports whether the body is a pattern.
func (b Body) IsPattern() bool { return b.Pattern != nil }

// MarshalJSON encodes patterns in their /source/flags form.
func (b Body) MarshalJSON() ([]byte, error) {
	if b.Pattern != nil {
		return json.Marshal(b.Pattern.String())
	}
	return json.Marshal(b.Text)
}

// RoleAttr is an extra getByRole option such as checked or level.
type RoleAttr struct {
	Name  string         `json:"name"`
	Value selector.Value `json:"value"`
}

// Options are the optional arguments of a locator call.
type Options struct {
	Attrs      []RoleAttr `json:"attrs,omitempty"`
	Exact      bool       `json:"exact,omitempty"`
	Name       *Body      `json:"name,omitempty"`
	HasText    *Body      `json:"hasText,omitempty"`
	HasNotText *Body      `json:"hasNotText,omitempty"`
}

// Factory renders locator calls in one target language.
type Factory interface {
	GenerateLocator(base Base, kind Kind, body Body, opts Options) string
	ChainLocators(locators []string) string
}

func unknownKind(kind Kind) string {
	panic("Unknown selector kind " + string(kind))
}
