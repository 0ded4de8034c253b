package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/prism/internal/adapters/loader"
	"github.com/0xcro3dile/prism/internal/config"
	"github.com/0xcro3dile/prism/internal/domain/entities"
	"github.com/0xcro3dile/prism/internal/domain/usecases"
	"github.com/0xcro3dile/prism/internal/report"
)

func newSplitCmd(a *app) *cobra.Command {
	f := &splitFlags{}
	cmd := &cobra.Command{
		Use:   "split FILE",
		Short: "Split a document and show its chunks",
		Long:  "Split a .txt, .md or .pdf document (or - for stdin) and print each chunk with its overlap, token count and query score.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.apply(cmd, a.cfg); err != nil {
				return err
			}
			return a.inspect(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), args[0], f)
		},
	}
	f.bind(cmd)
	return cmd
}

// inspect loads one document, processes it and writes the report.
func (a *app) inspect(ctx context.Context, out io.Writer, stdin io.Reader, path string, f *splitFlags) error {
	uc, tokens, err := a.processor()
	if err != nil {
		return err
	}

	text, err := a.readDocument(ctx, stdin, path)
	if err != nil {
		return err
	}

	cfg := a.cfg.SplitConfig()
	if a.cfg.LengthUnit == config.LengthUnitTokens {
		cfg.LengthFn = usecases.TokenLength(ctx, tokens)
	}

	result, err := uc.Process(ctx, entities.ProcessRequest{Document: text, Query: f.query, Config: cfg})
	if err != nil {
		return err
	}
	a.log.Debug("document processed", "path", path, "chunks", len(result.Chunks))

	if f.asJSON {
		return report.WriteJSON(out, result)
	}
	return report.Render(out, result, report.Options{Query: f.query, Unit: a.cfg.LengthUnit})
}

func (a *app) readDocument(ctx context.Context, stdin io.Reader, path string) (string, error) {
	if path != "-" {
		doc, err := loader.NewMultiLoader(a.cfg.MaxDocumentBytes).Load(ctx, path)
		if err != nil {
			return "", err
		}
		return doc.Content, nil
	}

	data, err := io.ReadAll(io.LimitReader(stdin, a.cfg.MaxDocumentBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	if int64(len(data)) > a.cfg.MaxDocumentBytes {
		return "", fmt.Errorf("%w: stdin is larger than %d bytes", entities.ErrDocumentTooLarge, a.cfg.MaxDocumentBytes)
	}
	return string(data), nil
}
