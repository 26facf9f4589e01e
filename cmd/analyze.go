package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spigell/rh-pro/internal/analysis"
	"github.com/spigell/rh-pro/internal/presenter"
	"github.com/spigell/rh-pro/internal/staging"
	"github.com/spigell/rh-pro/internal/submission"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	outputText = "text"
	outputJSON = "json"
)

var errSubmissionFailed = errors.New("submission failed")

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] RESUME...",
	Short: "Submit résumés with a job description and print the ranked candidates",
	Long: "Submit résumés with a job description and print the ranked candidates.\n" +
		"Directories are expanded to the files matching form.accepted-extensions.",
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("description", "D", "", "job description text")
	analyzeCmd.Flags().StringP("description-file", "f", "", "file with the job description, - for stdin")
	analyzeCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	log, config, err := setup()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	defer log.Sync()

	output, _ := cmd.Flags().GetString("output")
	if output != outputText && output != outputJSON {
		return fmt.Errorf("unsupported output format: %s", output)
	}

	description, err := readDescription(cmd)
	if err != nil {
		return err
	}

	handles, err := staging.OpenPaths(ctx, args, config.Form.AcceptedExtensions)
	if err != nil {
		return fmt.Errorf("staging résumés: %w", err)
	}

	controller, err := newController(config, log)
	if err != nil {
		return fmt.Errorf("building analysis client: %w", err)
	}

	controller.UpdateDescription(description)
	files := controller.AddFiles(handles...)

	log.Info("staged résumés",
		zap.Int("offered", len(handles)),
		zap.Int("staged", len(files)),
	)

	p := newPresenter(config)
	progress := &presenter.Renderer{Out: cmd.ErrOrStderr(), Color: useColor(os.Stderr)}

	status := controller.Submit(ctx)
	if status.State == submission.Loading && output == outputText {
		if err := progress.Render(p.Present(status, controller.StagedCount(), controller.HasSubmitted())); err != nil {
			return err
		}
	}

	status, err = controller.Wait(ctx)
	if err != nil {
		return err
	}

	if err := writeStatus(cmd.OutOrStdout(), output, p, status, controller); err != nil {
		return err
	}

	if status.State == submission.Failed {
		return errSubmissionFailed
	}

	return nil
}

func writeStatus(w io.Writer, output string, p presenter.Presenter, status submission.Status, controller *submission.Controller) error {
	if output == outputJSON && status.State == submission.Succeeded {
		results := status.Results
		if results == nil {
			results = []*analysis.Candidate{}
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	renderer := &presenter.Renderer{Out: w, Color: w == io.Writer(os.Stdout) && useColor(os.Stdout)}
	return renderer.Render(p.Present(status, controller.StagedCount(), controller.HasSubmitted()))
}

func readDescription(cmd *cobra.Command) (string, error) {
	text, _ := cmd.Flags().GetString("description")
	file, _ := cmd.Flags().GetString("description-file")

	if text != "" && file != "" {
		return "", errors.New("use either --description or --description-file")
	}

	switch file {
	case "":
		return text, nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading description from stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading description file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
}
