package loader

import (
	"context"
	"fmt"
	"strings"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
)

// Loader fetches prompt and template content into a Form. Each operation
// issues at most one request and blocks until it resolves; concurrent
// operations are not sequenced, so the last one to finish wins.
type Loader struct {
	form      Form
	transport Transport
	notifier  Notifier
	log       *logger.Logger
}

func NewLoader(form Form, transport Transport, notifier Notifier, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{
		form:      form,
		transport: transport,
		notifier:  notifier,
		log:       log.With("component", "ContentLoader"),
	}
}

func (l *Loader) notify(kind NoticeKind, msg string) {
	if l.notifier != nil {
		l.notifier.Notify(Notice{Kind: kind, Message: msg})
	}
}

func (l *Loader) lookup(ctx context.Context, req LookupRequest) (ContentResponse, error) {
	if l.transport == nil {
		return ContentResponse{}, fmt.Errorf("no transport configured: %w", ErrTransport)
	}
	resp, err := l.transport.Lookup(ctx, req)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("%v: %w", err, ErrTransport)
	}
	return resp, nil
}

// LoadForPrompt loads the content of the selected prompt for the selected client.
func (l *Loader) LoadForPrompt(ctx context.Context) error {
	clientID := valueOf(l.form.ClientID)
	promptName := valueOf(l.form.PromptName)
	if promptName == "" || promptName == CustomPromptName || clientID == "" {
		setValue(l.form.Content, "")
		return fmt.Errorf("prompt name and client id required: %w", ErrPreconditionNotMet)
	}

	resp, err := l.lookup(ctx, LookupRequest{ClientID: clientID, PromptName: promptName})
	if err != nil {
		l.log.Warn("Prompt lookup failed", "client_id", clientID, "prompt_name", promptName, "error", err)
		setValue(l.form.Content, "")
		l.notify(NoticeError, msgPromptLoadError)
		return err
	}
	prompt, ok := resp.prompt()
	if !ok {
		setValue(l.form.Content, "")
		l.notify(NoticeEmpty, msgPromptLoadFailed)
		return fmt.Errorf("prompt %q: %w", promptName, ErrEmptyResult)
	}
	setValue(l.form.Content, prompt)
	return nil
}

// resetPromptName puts the prompt-name group back into its editable state.
func (l *Loader) resetPromptName() {
	setValue(l.form.Content, "")
	setVisible(l.form.PromptNameGroup, true)
	setValue(l.form.PromptName, CustomPromptName)
}

// LoadForTemplateName loads the template prompt of the template selected by
// name. A template that fully determines its prompt hides the prompt-name group.
func (l *Loader) LoadForTemplateName(ctx context.Context) error {
	clientID := valueOf(l.form.ClientID)
	templateName := valueOf(l.form.TemplateName)
	if templateName == "" || clientID == "" {
		l.resetPromptName()
		return fmt.Errorf("template name and client id required: %w", ErrPreconditionNotMet)
	}

	resp, err := l.lookup(ctx, LookupRequest{ClientID: clientID, TemplateName: templateName})
	if err != nil {
		l.log.Warn("Template lookup failed", "client_id", clientID, "template_name", templateName, "error", err)
		l.resetPromptName()
		l.notify(NoticeError, msgTemplateLoadError)
		return err
	}
	prompt, hasPrompt := resp.prompt()
	_, hasName := resp.promptName()
	if !hasPrompt || !hasName {
		l.resetPromptName()
		l.notify(NoticeEmpty, msgNoTemplatePrompt)
		return fmt.Errorf("template %q: %w", templateName, ErrEmptyResult)
	}
	setValue(l.form.Content, prompt)
	setVisible(l.form.PromptNameGroup, false)
	return nil
}

// LoadForTemplateID loads the template prompt of the template selected by id.
// The client id may be empty and is forwarded unchanged. Visibility is never
// touched.
func (l *Loader) LoadForTemplateID(ctx context.Context) error {
	clientID := valueOf(l.form.ClientID)
	templateID := valueOf(l.form.TemplateID)
	if templateID == "" {
		setValue(l.form.Content, "")
		return fmt.Errorf("template id required: %w", ErrPreconditionNotMet)
	}

	resp, err := l.lookup(ctx, LookupRequest{ClientID: clientID, TemplateID: templateID})
	if err != nil {
		l.log.Warn("Template lookup failed", "client_id", clientID, "template_id", templateID, "error", err)
		setValue(l.form.Content, "")
		l.notify(NoticeError, msgTemplateLoadError)
		return err
	}
	prompt, ok := resp.prompt()
	if !ok {
		setValue(l.form.Content, "")
		l.notify(NoticeEmpty, msgTemplateLoadFailed)
		return fmt.Errorf("template %s: %w", templateID, ErrEmptyResult)
	}
	setValue(l.form.Content, prompt)
	return nil
}

// ToggleTemplateUpload flips the upload panel and resets the template and
// prompt selection.
func (l *Loader) ToggleTemplateUpload() {
	setVisible(l.form.UploadPanel, !visible(l.form.UploadPanel))
	setValue(l.form.TemplateName, "")
	setValue(l.form.TemplateID, "")
	l.resetPromptName()
}

// UpdatePrompts copies the prompts embedded in the selected template option
// into the template and conversion prompt fields.
func (l *Loader) UpdatePrompts() {
	var data map[string]string
	if l.form.TemplateSelector != nil {
		if opt, ok := l.form.TemplateSelector.Selected(); ok {
			data = opt.Data
		}
	}
	setValue(l.form.TemplatePrompt, DecodeNewlines(data[DataTemplatePrompt]))
	setValue(l.form.ConversionPrompt, DecodeNewlines(data[DataConversionPrompt]))
}

// OptionFromTemplate builds the selector option for a template summary, with
// its prompts embedded the way UpdatePrompts expects them.
func OptionFromTemplate(s *types.TemplateSummary) Option {
	if s == nil {
		return Option{}
	}
	opt := Option{Value: s.ID.String(), Label: s.Name, Data: map[string]string{}}
	if strings.TrimSpace(s.TemplatePromptContent) != "" {
		opt.Data[DataTemplatePrompt] = EncodeNewlines(s.TemplatePromptContent)
	}
	if strings.TrimSpace(s.ConversionPromptContent) != "" {
		opt.Data[DataConversionPrompt] = EncodeNewlines(s.ConversionPromptContent)
	}
	return opt
}
