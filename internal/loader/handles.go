package loader

import "context"

type Field interface {
	Value() string
	SetValue(string)
}

type Group interface {
	Visible() bool
	SetVisible(bool)
}

type Selector interface {
	Selected() (Option, bool)
}

type Notifier interface {
	Notify(Notice)
}

type Transport interface {
	Lookup(ctx context.Context, req LookupRequest) (ContentResponse, error)
}

// Form is the set of handles a Loader reads and writes. Any handle may be nil:
// nil fields read as "" and nil groups as hidden, and writes to them are dropped.
type Form struct {
	ClientID     Field
	PromptName   Field
	TemplateName Field
	TemplateID   Field
	Content      Field

	PromptNameGroup Group
	UploadPanel     Group

	TemplateSelector Selector
	TemplatePrompt   Field
	ConversionPrompt Field
}

func valueOf(f Field) string {
	if f == nil {
		return ""
	}
	return f.Value()
}

func setValue(f Field, v string) {
	if f != nil {
		f.SetValue(v)
	}
}

func visible(g Group) bool {
	if g == nil {
		return false
	}
	return g.Visible()
}

func setVisible(g Group, v bool) {
	if g != nil {
		g.SetVisible(v)
	}
}
