package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

const (
	introTitle   = "Ready to find the right talent?"
	introText    = "Fill in the job description and add résumés to start the compatibility analysis."
	errorTitle   = "Oops! Something went wrong."
	noMatchTitle = "No matching profile"
	noMatchText  = "The analysis finished, but no relevant candidate was identified for this role."
	placeholder  = "░░░░░░░░░░░░░░░░░░░░░░░░"
)

var introSteps = []string{"Describe the role", "Add the résumés", "Get the analysis"}

var (
	styleStrong  = promptui.Styler(promptui.FGGreen, promptui.FGBold)
	stylePartial = promptui.Styler(promptui.FGYellow, promptui.FGBold)
	styleWeak    = promptui.Styler(promptui.FGRed, promptui.FGBold)
	styleTitle   = promptui.Styler(promptui.FGBold)
	styleFaint   = promptui.Styler(promptui.FGFaint)
)

// Renderer writes a Choice as plain or coloured text.
type Renderer struct {
	Out   io.Writer
	Color bool
}

func (r *Renderer) Render(choice Choice) error {
	var b strings.Builder

	switch choice.Kind {
	case KindSkeleton:
		for range choice.Placeholders {
			fmt.Fprintf(&b, "%s\n", r.style(styleFaint, placeholder))
		}
	case KindError:
		fmt.Fprintf(&b, "%s\n%s\n", r.style(styleWeak, errorTitle), choice.Message)
	case KindNoMatch:
		fmt.Fprintf(&b, "%s\n%s\n", r.style(styleTitle, noMatchTitle), noMatchText)
	case KindResults:
		for i, e := range choice.Entries {
			if i > 0 {
				b.WriteString("\n")
			}
			r.writeEntry(&b, e)
		}
	default:
		fmt.Fprintf(&b, "%s\n%s\n", r.style(styleTitle, introTitle), introText)
		for i, step := range introSteps {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
		}
	}

	_, err := io.WriteString(r.Out, b.String())
	return err
}

func (r *Renderer) writeEntry(b *strings.Builder, e Entry) {
	name := e.Name
	if e.Filename != "" {
		name = fmt.Sprintf("%s (%s)", e.Name, e.Filename)
	}

	badge := fmt.Sprintf("%d%%", e.Score)
	fmt.Fprintf(b, "#%d %s  %s\n", e.Rank, r.style(styleTitle, name), r.style(bandStyle(e.Band), badge))

	if e.Summary != "" {
		fmt.Fprintf(b, "   Summary: %s\n", strings.TrimSpace(e.Summary))
	}

	for _, f := range e.Details {
		fmt.Fprintf(b, "   %s: %s\n", f.Label, f.Value)
	}
}

func (r *Renderer) style(styler func(interface{}) string, s string) string {
	if !r.Color {
		return s
	}
	return styler(s)
}

func bandStyle(b Band) func(interface{}) string {
	switch b {
	case BandStrong:
		return styleStrong
	case BandPartial:
		return stylePartial
	default:
		return styleWeak
	}
}
