package cli

import (
	"io"

	"shelltest/internal/logger"
	"shelltest/internal/output"
	"shelltest/internal/report"
)

// newPrinter builds the report printer for w using the --color setting.
func (app *App) newPrinter(w io.Writer) *output.Printer {
	mode, err := output.ParseMode(app.Settings.Color)
	if err != nil {
		mode = output.ModeAuto
	}
	logger.Debug("report printer", "color", mode)
	return output.NewPrinter(output.WithWriter(w), output.WithMode(mode))
}

// printReport writes the report lines, styled by kind.
func printReport(p *output.Printer, rep *report.Report, opts report.FormatOptions) {
	for _, line := range rep.Lines(opts) {
		switch line.Kind {
		case report.LinePassed:
			p.Success(line.Text)
		case report.LineFailed:
			p.Failure(line.Text)
		case report.LineError:
			p.Error(line.Text)
		default:
			p.Detail(line.Text)
		}
	}
}
