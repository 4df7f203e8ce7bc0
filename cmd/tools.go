package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/querykiln/kiln/internal/adapters/render/view"
	"github.com/querykiln/kiln/internal/domain"
	"github.com/spf13/cobra"
)

// textInput reads a page's text from --file ("-" for stdin) or, failing
// that, from the positional arguments.
type textInput struct {
	file string
}

func (in *textInput) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.file, "file", "f", "", "Read the text from a file (- for stdin)")
}

func (in *textInput) read(cmd *cobra.Command, args []string) (string, error) {
	switch in.file {
	case "":
		return strings.Join(args, " "), nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(in.file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", in.file, err)
		}
		return string(data), nil
	}
}

func newRewriteCmd(app *app) *cobra.Command {
	var (
		input  textInput
		tone   string
		style  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "rewrite [text...]",
		Short: "Rewrite text with AI",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := input.read(cmd, args)
			if err != nil {
				return err
			}

			var result domain.RewriteResult
			err = call(cmd, "Rewriting text...", asJSON, func() error {
				session, err := app.pages.Open(cmd.Context())
				if err != nil {
					return err
				}
				result, err = app.pages.Rewrite(cmd.Context(), session, domain.RewriteRequest{Text: text, Tone: tone, Style: style})
				return err
			})
			if err != nil {
				return err
			}

			return writeView(cmd, asJSON, result, func() (string, error) {
				return view.RenderRewrite(result)
			})
		},
	}

	input.bind(cmd)
	cmd.Flags().StringVar(&tone, "tone", "neutral", "Tone: neutral, friendly, professional, casual, confident")
	cmd.Flags().StringVar(&style, "style", "standard", "Style: standard, simplified, detailed, creative")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newKeywordsCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "keywords <topic...>",
		Short: "Generate keyword ideas for a topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args, " ")

			var report domain.KeywordReport
			err := call(cmd, "Generating keyword ideas...", asJSON, func() error {
				session, err := app.pages.Open(cmd.Context())
				if err != nil {
					return err
				}
				report, err = app.pages.Keywords(cmd.Context(), session, topic)
				return err
			})
			if err != nil {
				return err
			}

			return writeView(cmd, asJSON, report, func() (string, error) {
				return view.RenderKeywords(topic, report)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newBacklinksCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "backlinks <domain>",
		Short: "Check the backlinks of a domain",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site := firstArg(args)

			var report domain.BacklinkReport
			err := call(cmd, "Checking backlinks...", asJSON, func() error {
				var err error
				report, err = app.pages.Backlinks(cmd.Context(), site)
				return err
			})
			if err != nil {
				return err
			}

			return writeView(cmd, asJSON, report, func() (string, error) {
				return view.RenderBacklinks(site, report)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newCompetitorsCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "competitors <domain>",
		Short: "Run a competitor analysis for a domain",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site := firstArg(args)

			var report domain.CompetitorReport
			err := call(cmd, "Running competitor analysis...", asJSON, func() error {
				var err error
				report, err = app.pages.Competitors(cmd.Context(), site)
				return err
			})
			if err != nil {
				return err
			}

			return writeView(cmd, asJSON, report, func() (string, error) {
				return view.RenderCompetitors(site, report)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newContentGapCmd(app *app) *cobra.Command {
	var (
		input  textInput
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "content-gap [text...]",
		Short: "Find content gaps in a draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := input.read(cmd, args)
			if err != nil {
				return err
			}

			var report domain.ContentGapReport
			err = call(cmd, "Running content gap analysis...", asJSON, func() error {
				var err error
				report, err = app.pages.ContentGap(cmd.Context(), text)
				return err
			})
			if err != nil {
				return err
			}

			return writeView(cmd, asJSON, report, func() (string, error) {
				return view.RenderContentGap(report)
			})
		},
	}

	input.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newPlagiarismCmd(app *app) *cobra.Command {
	var (
		input  textInput
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "plagiarism [text...]",
		Short: "Check text for plagiarism (Forge plan)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := input.read(cmd, args)
			if err != nil {
				return err
			}

			var report domain.PlagiarismReport
			err = call(cmd, "Checking plagiarism...", asJSON, func() error {
				session, err := app.pages.Open(cmd.Context())
				if err != nil {
					return err
				}
				report, err = app.pages.Plagiarism(cmd.Context(), session, text)
				return err
			})
			if err != nil {
				return err
			}

			return writeView(cmd, asJSON, report, func() (string, error) {
				return view.RenderPlagiarism(report)
			})
		},
	}

	input.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
