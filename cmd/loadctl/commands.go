package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/promptdesk-backend/internal/loader"
)

func newPromptCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt NAME",
		Short: "Load a prompt by name for the selected client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			s.form.PromptName.SetValue(args[0])
			return s.finish(s.loader.LoadForPrompt(cmd.Context()))
		},
	}
}

func newTemplateNameCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "template-name NAME",
		Short: "Load the prompt of a template selected by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			s.form.TemplateName.SetValue(args[0])
			return s.finish(s.loader.LoadForTemplateName(cmd.Context()))
		},
	}
}

func newTemplateIDCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "template-id ID",
		Short: "Load the prompt of a template selected by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			s.form.TemplateID.SetValue(args[0])
			return s.finish(s.loader.LoadForTemplateID(cmd.Context()))
		},
	}
}

func newToggleUploadCmd(opts *options) *cobra.Command {
	var times int
	cmd := &cobra.Command{
		Use:   "toggle-upload",
		Short: "Toggle the template upload panel and show the reset form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			for i := 0; i < times; i++ {
				s.loader.ToggleTemplateUpload()
			}
			return s.finish(nil)
		},
	}
	cmd.Flags().IntVarP(&times, "times", "n", 1, "number of toggles")
	return cmd
}

func newUpdatePromptsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "update-prompts TEMPLATE_ID",
		Short: "Select a template option and copy its embedded prompts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			summaries, err := s.transport.ListTemplates(cmd.Context(), opts.clientID)
			if err != nil {
				return fmt.Errorf("list templates: %w", err)
			}
			choices := make([]loader.Option, 0, len(summaries))
			for _, t := range summaries {
				choices = append(choices, loader.OptionFromTemplate(t))
			}
			s.form.TemplateSelector.SetOptions(choices)
			if !s.form.TemplateSelector.Select(args[0]) {
				fmt.Fprintf(cmd.ErrOrStderr(), "template %s not among %d options\n", args[0], len(choices))
			}
			s.loader.UpdatePrompts()
			return s.finish(nil)
		},
	}
}
