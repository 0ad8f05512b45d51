package ui

import (
	"context"

	"github.com/five82/dinemenu/internal/setup"
)

// Wizard is a setup flow the TUI can drive.
type Wizard interface {
	Start(ctx context.Context) setup.Form
	Retry(ctx context.Context) setup.Form
	Choose(ctx context.Context, step setup.Step, choice string) setup.Form
	SubmitWindows(ctx context.Context, values []setup.WindowValue) setup.Form
}

// NewFlowWizard drives the creation of a new entry.
func NewFlowWizard(f *setup.Flow) Wizard {
	return flowWizard{f}
}

type flowWizard struct {
	flow *setup.Flow
}

func (w flowWizard) Start(ctx context.Context) setup.Form { return w.flow.Start(ctx) }
func (w flowWizard) Retry(ctx context.Context) setup.Form { return w.flow.Retry(ctx) }

func (w flowWizard) Choose(ctx context.Context, step setup.Step, choice string) setup.Form {
	switch step {
	case setup.StepSchool:
		return w.flow.SelectSchool(ctx, choice)
	case setup.StepLocation:
		return w.flow.SelectLocation(ctx, choice)
	case setup.StepMode:
		return w.flow.SelectMode(ctx, setup.Mode(choice))
	case setup.StepPeriod:
		return w.flow.SelectPeriod(ctx, choice)
	}
	return w.flow.Retry(ctx)
}

func (w flowWizard) SubmitWindows(ctx context.Context, values []setup.WindowValue) setup.Form {
	return w.flow.SubmitWindows(ctx, values)
}

// NewReconfigureWizard drives the editing of an existing entry.
func NewReconfigureWizard(r *setup.Reconfigure) Wizard {
	return reconfigureWizard{r}
}

type reconfigureWizard struct {
	r *setup.Reconfigure
}

func (w reconfigureWizard) Start(context.Context) setup.Form { return w.r.Form() }
func (w reconfigureWizard) Retry(context.Context) setup.Form { return w.r.Form() }

func (w reconfigureWizard) Choose(ctx context.Context, _ setup.Step, choice string) setup.Form {
	return w.r.SelectPeriod(ctx, choice)
}

func (w reconfigureWizard) SubmitWindows(ctx context.Context, values []setup.WindowValue) setup.Form {
	return w.r.SubmitWindows(ctx, values)
}
