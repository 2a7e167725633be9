package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/promptdesk-backend/internal/loader"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
)

type options struct {
	baseURL  string
	token    string
	clientID string
	output   string
	verbose  bool
}

// session is one loadctl invocation: a fresh in-memory form and a loader
// bound to the backend.
type session struct {
	opts      *options
	form      *loader.MemoryForm
	transport *loader.HTTPTransport
	loader    *loader.Loader
	out       io.Writer
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "loadctl",
		Short:         "Drive the content loader against a promptdesk backend",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", envOr("LOADCTL_BASE_URL", "http://localhost:8080"), "backend base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", envOr("LOADCTL_TOKEN", ""), "bearer access token")
	root.PersistentFlags().StringVarP(&opts.clientID, "client", "c", "", "client id")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "form output format (json|yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests")

	root.AddCommand(
		newPromptCmd(opts),
		newTemplateNameCmd(opts),
		newTemplateIDCmd(opts),
		newToggleUploadCmd(opts),
		newUpdatePromptsCmd(opts),
	)
	return root
}

func newSession(cmd *cobra.Command, opts *options) (*session, error) {
	log := logger.Nop()
	if opts.verbose {
		l, err := logger.New("development")
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		log = l
	}
	form := loader.NewMemoryForm()
	form.ClientID.SetValue(opts.clientID)
	transport := loader.NewHTTPTransport(opts.baseURL, opts.token, nil)
	notifier := &stderrNotifier{w: cmd.ErrOrStderr()}
	return &session{
		opts:      opts,
		form:      form,
		transport: transport,
		loader:    loader.NewLoader(form.Form(), transport, notifier, log),
		out:       cmd.OutOrStdout(),
	}, nil
}

// finish prints the form state and passes opErr through so the exit status
// reflects the operation's outcome.
func (s *session) finish(opErr error) error {
	if err := s.print(s.form.Snapshot()); err != nil {
		return err
	}
	return opErr
}

func (s *session) print(v any) error {
	switch strings.ToLower(s.opts.output) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(s.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(s.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", s.opts.output)
	}
}

type stderrNotifier struct {
	w io.Writer
}

func (n *stderrNotifier) Notify(notice loader.Notice) {
	fmt.Fprintf(n.w, "[%s] %s\n", notice.Kind, notice.Message)
}
