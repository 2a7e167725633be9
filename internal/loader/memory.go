package loader

import "sync"

type MemoryField struct {
	mu  sync.Mutex
	val string
}

func (f *MemoryField) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.val
}

func (f *MemoryField) SetValue(v string) {
	f.mu.Lock()
	f.val = v
	f.mu.Unlock()
}

type MemoryGroup struct {
	mu      sync.Mutex
	visible bool
}

func (g *MemoryGroup) Visible() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.visible
}

func (g *MemoryGroup) SetVisible(v bool) {
	g.mu.Lock()
	g.visible = v
	g.mu.Unlock()
}

type MemorySelector struct {
	mu       sync.Mutex
	options  []Option
	selected int
}

// NewMemorySelector holds options with nothing selected.
func NewMemorySelector(options ...Option) *MemorySelector {
	return &MemorySelector{options: options, selected: -1}
}

func (s *MemorySelector) Options() []Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Option(nil), s.options...)
}

func (s *MemorySelector) SetOptions(options []Option) {
	s.mu.Lock()
	s.options = options
	s.selected = -1
	s.mu.Unlock()
}

// Select marks the option whose Value matches. It reports false and clears
// the selection when no option matches.
func (s *MemorySelector) Select(value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.options {
		if o.Value == value {
			s.selected = i
			return true
		}
	}
	s.selected = -1
	return false
}

func (s *MemorySelector) Selected() (Option, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 || s.selected >= len(s.options) {
		return Option{}, false
	}
	return s.options[s.selected], true
}

// NoticeLog records notices in order.
type NoticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

func (n *NoticeLog) Notify(notice Notice) {
	n.mu.Lock()
	n.notices = append(n.notices, notice)
	n.mu.Unlock()
}

func (n *NoticeLog) Notices() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.notices...)
}

// MemoryForm is a Form backed by in-memory handles. The prompt-name group
// starts visible and the upload panel hidden.
type MemoryForm struct {
	ClientID         *MemoryField
	PromptName       *MemoryField
	TemplateName     *MemoryField
	TemplateID       *MemoryField
	Content          *MemoryField
	PromptNameGroup  *MemoryGroup
	UploadPanel      *MemoryGroup
	TemplateSelector *MemorySelector
	TemplatePrompt   *MemoryField
	ConversionPrompt *MemoryField
}

func NewMemoryForm() *MemoryForm {
	return &MemoryForm{
		ClientID:         &MemoryField{},
		PromptName:       &MemoryField{},
		TemplateName:     &MemoryField{},
		TemplateID:       &MemoryField{},
		Content:          &MemoryField{},
		PromptNameGroup:  &MemoryGroup{visible: true},
		UploadPanel:      &MemoryGroup{},
		TemplateSelector: NewMemorySelector(),
		TemplatePrompt:   &MemoryField{},
		ConversionPrompt: &MemoryField{},
	}
}

func (m *MemoryForm) Form() Form {
	return Form{
		ClientID:         m.ClientID,
		PromptName:       m.PromptName,
		TemplateName:     m.TemplateName,
		TemplateID:       m.TemplateID,
		Content:          m.Content,
		PromptNameGroup:  m.PromptNameGroup,
		UploadPanel:      m.UploadPanel,
		TemplateSelector: m.TemplateSelector,
		TemplatePrompt:   m.TemplatePrompt,
		ConversionPrompt: m.ConversionPrompt,
	}
}

// Snapshot is a point-in-time copy of a MemoryForm's values.
type Snapshot struct {
	ClientID           string `json:"client_id" yaml:"client_id"`
	PromptName         string `json:"prompt_name" yaml:"prompt_name"`
	TemplateName       string `json:"template_name" yaml:"template_name"`
	TemplateID         string `json:"template_id" yaml:"template_id"`
	Content            string `json:"content" yaml:"content"`
	PromptNameVisible  bool   `json:"prompt_name_visible" yaml:"prompt_name_visible"`
	UploadPanelVisible bool   `json:"upload_panel_visible" yaml:"upload_panel_visible"`
	TemplatePrompt     string `json:"template_prompt" yaml:"template_prompt"`
	ConversionPrompt   string `json:"conversion_prompt" yaml:"conversion_prompt"`
}

func (m *MemoryForm) Snapshot() Snapshot {
	return Snapshot{
		ClientID:           m.ClientID.Value(),
		PromptName:         m.PromptName.Value(),
		TemplateName:       m.TemplateName.Value(),
		TemplateID:         m.TemplateID.Value(),
		Content:            m.Content.Value(),
		PromptNameVisible:  m.PromptNameGroup.Visible(),
		UploadPanelVisible: m.UploadPanel.Visible(),
		TemplatePrompt:     m.TemplatePrompt.Value(),
		ConversionPrompt:   m.ConversionPrompt.Value(),
	}
}
