// Package cli exposes the protocol rule engine and question catalog on the
// command line, without a backend or a session.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"hairline/internal/protocol"
	"hairline/internal/questionnaire"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// NewRootCommand builds the protocol command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "protocol",
		Short:         "Compute treatment protocols offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCalculateCommand(), newQuestionsCommand())
	return root
}

func newCalculateCommand() *cobra.Command {
	var (
		file   string
		format string
	)
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Print the protocol for an answers file",
		Long: `Reads a YAML mapping of question id to answer and prints the product bundle.
Multi-choice answers may be given as a list or a comma-joined string.
Use "-" to read the answers from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, closeFn, err := openInput(cmd, file)
			if err != nil {
				return err
			}
			defer closeFn()

			answers, err := ReadAnswers(in)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), format, protocol.Summarize(answers))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "answers file")
	cmd.Flags().StringVarP(&format, "output", "o", formatYAML, "output format: yaml or json")
	return cmd
}

func newQuestionsCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Print the question catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return write(cmd.OutOrStdout(), format, questionnaire.DefaultQuestions())
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatYAML, "output format: yaml or json")
	return cmd
}

func openInput(cmd *cobra.Command, file string) (io.Reader, func(), error) {
	if file == "" || file == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("open answers: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// ReadAnswers decodes a YAML answers document. List values are joined with
// commas the same way the questionnaire stores multi-choice answers.
func ReadAnswers(r io.Reader) (protocol.Answers, error) {
	var raw map[string]yaml.Node
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return protocol.Answers{}, nil
		}
		return nil, fmt.Errorf("decode answers: %w", err)
	}

	answers := make(protocol.Answers, len(raw))
	for key, node := range raw {
		switch node.Kind {
		case yaml.ScalarNode:
			answers[key] = node.Value
		case yaml.SequenceNode:
			values := make([]string, 0, len(node.Content))
			for _, item := range node.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("answer %q: nested values are not allowed", key)
				}
				values = append(values, item.Value)
			}
			answers[key] = strings.Join(values, ",")
		default:
			return nil, fmt.Errorf("answer %q: expected a string or a list", key)
		}
	}
	return answers, nil
}

func write(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
