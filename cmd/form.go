package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spigell/rh-pro/internal/analysis"
	"github.com/spigell/rh-pro/internal/presenter"
	"github.com/spigell/rh-pro/internal/staging"
	"github.com/spigell/rh-pro/internal/submission"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptDescribe      = "Edit job description"
	PromptAddResumes    = "Add résumés"
	PromptListResumes   = "List staged résumés"
	PromptAnalyze       = "Analyze compatibility"
	PromptWait          = "Wait for the analysis"
	PromptResults       = "Show results"
	PromptResultsToFile = "Dump results to file"
	PromptExit          = "Exit"
)

var errExit = errors.New("exit requested")

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Fill the job description and résumés interactively, then analyze them",
	RunE:  runForm,
}

func init() {
	rootCmd.AddCommand(formCmd)
}

// form is the interactive session state outside the controller.
type form struct {
	log        *zap.Logger
	config     *Config
	controller *submission.Controller
	presenter  presenter.Presenter
	renderer   *presenter.Renderer
}

func runForm(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	log, config, err := setup()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	defer log.Sync()

	controller, err := newController(config, log)
	if err != nil {
		return fmt.Errorf("building analysis client: %w", err)
	}

	f := &form{
		log:        log,
		config:     config,
		controller: controller,
		presenter:  newPresenter(config),
		renderer:   &presenter.Renderer{Out: cmd.OutOrStdout(), Color: useColor(os.Stdout)},
	}

	log.Info("starting the rh-pro form", zap.String("version", version))

	if err := f.show(); err != nil {
		return err
	}

	for {
		prompt := promptui.Select{
			Label: f.label(),
			Items: f.actions(),
		}

		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		if err := f.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				controller.Drain()
				return nil
			}
			return err
		}
	}
}

func (f *form) label() string {
	status := f.controller.Status()
	return fmt.Sprintf("%d résumé(s) staged, status: %s", f.controller.StagedCount(), status.State)
}

// actions hides the submit action while a request is in flight.
func (f *form) actions() []string {
	items := []string{PromptDescribe, PromptAddResumes, PromptListResumes}

	status := f.controller.Status()
	if status.State == submission.Loading {
		items = append(items, PromptWait)
	} else {
		items = append(items, PromptAnalyze)
	}

	items = append(items, PromptResults)
	if status.State == submission.Succeeded && len(status.Results) > 0 {
		items = append(items, PromptResultsToFile)
	}

	return append(items, PromptExit)
}

func (f *form) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptDescribe:
		return f.describe()
	case PromptAddResumes:
		return f.addResumes(ctx)
	case PromptListResumes:
		for _, file := range f.controller.Files() {
			fmt.Fprintf(f.renderer.Out, "  %d. %s (%d bytes)\n", file.Order+1, file.Name(), file.Size())
		}
		return nil
	case PromptAnalyze:
		f.controller.Submit(ctx)
		return f.show()
	case PromptWait:
		if _, err := f.controller.Wait(ctx); err != nil {
			return err
		}
		return f.show()
	case PromptResults:
		return f.show()
	case PromptResultsToFile:
		return f.dump()
	case PromptExit:
		f.log.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (f *form) describe() error {
	prompt := promptui.Prompt{
		Label:     "Job description (or @file)",
		Default:   f.controller.Description(),
		AllowEdit: true,
	}

	input, err := prompt.Run()
	if err != nil {
		return err
	}

	text := input
	if path, ok := strings.CutPrefix(strings.TrimSpace(input), "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			f.log.Warn("reading description file", zap.String("path", path), zap.Error(err))
			return nil
		}
		text = strings.TrimSpace(string(data))
	}

	f.controller.UpdateDescription(text)
	f.log.Debug("description updated", zap.Int("length", len([]rune(text))))
	return nil
}

func (f *form) addResumes(ctx context.Context) error {
	prompt := promptui.Prompt{
		Label: fmt.Sprintf("Paths, space separated (directories pick %s)", strings.Join(f.config.Form.AcceptedExtensions, ", ")),
	}

	input, err := prompt.Run()
	if err != nil {
		return err
	}

	handles, err := staging.OpenPaths(ctx, strings.Fields(input), f.config.Form.AcceptedExtensions)
	if err != nil {
		f.log.Warn("staging résumés", zap.Error(err))
		return nil
	}

	before := f.controller.StagedCount()
	files := f.controller.AddFiles(handles...)

	f.log.Info("staged résumés",
		zap.Int("added", len(files)-before),
		zap.Int("duplicates", len(handles)-(len(files)-before)),
		zap.Int("staged", len(files)),
	)
	return nil
}

func (f *form) show() error {
	choice := f.presenter.Present(f.controller.Status(), f.controller.StagedCount(), f.controller.HasSubmitted())
	return f.renderer.Render(choice)
}

func (f *form) dump() error {
	filename, err := analysis.DumpToTmpFile(f.controller.Status().Results)
	if err != nil {
		return fmt.Errorf("dump results to file: %w", err)
	}

	f.log.Info("dumping results to file", zap.String("filename", filename))
	return nil
}
