package loader

import (
	"net/url"
	"strings"
)

// CustomPromptName is the prompt-name sentinel meaning "no stored prompt
// selected; the operator types their own".
const CustomPromptName = "Custom"

// Option data keys carried by template selector options.
const (
	DataTemplatePrompt   = "template-prompt"
	DataConversionPrompt = "conversion-prompt"
)

// Option is one entry of a selector. Data holds the embedded attributes, with
// newlines escaped as the two characters `\n`.
type Option struct {
	Value string
	Label string
	Data  map[string]string
}

type NoticeKind string

const (
	// NoticeEmpty reports a successful request that found nothing.
	NoticeEmpty NoticeKind = "empty"
	// NoticeError reports a transport or server failure.
	NoticeError NoticeKind = "error"
)

type Notice struct {
	Kind    NoticeKind
	Message string
}

const (
	msgPromptLoadFailed   = "Failed to load prompt content"
	msgPromptLoadError    = "Error loading prompt content"
	msgNoTemplatePrompt   = "No prompt is associated with this template"
	msgTemplateLoadFailed = "Failed to load template prompt"
	msgTemplateLoadError  = "Error loading template prompt"
)

// LookupRequest is the body of one content lookup. Exactly one of PromptName,
// TemplateName and TemplateID is meaningful; ClientID is always sent.
type LookupRequest struct {
	ClientID     string
	PromptName   string
	TemplateName string
	TemplateID   string
}

// Values encodes the request as form fields: client_id plus the first
// non-empty selector.
func (r LookupRequest) Values() url.Values {
	v := url.Values{}
	v.Set("client_id", r.ClientID)
	switch {
	case r.PromptName != "":
		v.Set("prompt_name", r.PromptName)
	case r.TemplateName != "":
		v.Set("template_name", r.TemplateName)
	case r.TemplateID != "":
		v.Set("template_id", r.TemplateID)
	}
	return v
}

// ContentResponse mirrors the lookup endpoint's JSON. A nil or empty field
// means "not found".
type ContentResponse struct {
	Prompt     *string `json:"prompt,omitempty"`
	PromptName *string `json:"prompt_name,omitempty"`
	Conversion *string `json:"conversion,omitempty"`
}

func (r ContentResponse) prompt() (string, bool) {
	if r.Prompt == nil || *r.Prompt == "" {
		return "", false
	}
	return *r.Prompt, true
}

func (r ContentResponse) promptName() (string, bool) {
	if r.PromptName == nil || *r.PromptName == "" {
		return "", false
	}
	return *r.PromptName, true
}

// DecodeNewlines turns escaped `\n` sequences into real newlines.
func DecodeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

// EncodeNewlines is the inverse of DecodeNewlines, used when embedding text in
// option data.
func EncodeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}
