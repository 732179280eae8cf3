// Package action executes the closed action vocabulary against the form and
// wizard of one session. Actions are resolved when documents are parsed;
// dispatch never fails, it logs and leaves state untouched instead.
package action

import (
	"context"
	"log/slog"
	"sync"

	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/form"
	"github.com/goliatone/go-surveygen/pkg/validation"
)

// Stepper is the wizard surface the dispatcher drives.
type Stepper interface {
	Next(ctx context.Context) (bool, error)
	Prev() bool
	CurrentStep() int
}

// SubmitFunc receives the answers of a valid form. A returned error is
// reported as a failed submission.
type SubmitFunc func(ctx context.Context, answers validation.Values) error

// SubmitStatus tracks the outcome of the last submit.
type SubmitStatus string

const (
	StatusIdle       SubmitStatus = "idle"
	StatusSubmitting SubmitStatus = "submitting"
	StatusSuccess    SubmitStatus = "success"
	StatusError      SubmitStatus = "error"
)

// Default notification texts.
const (
	DefaultSuccessMessage = "Your answers were submitted!"
	DefaultFailureMessage = "Please check your answers."
)

// Result carries the outcome of a dispatch. Value is set by reading actions
// (getValue, getCurrentStep), Valid by validating ones (validate, submit,
// goNextStep reports whether the cursor moved). Handled is false for unknown
// or invalid actions.
type Result struct {
	Value   any
	Valid   *bool
	Handled bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for contained failures.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithNotifier sets where submit outcomes are reported.
func WithNotifier(n Notifier) Option {
	return func(d *Dispatcher) {
		if n != nil {
			d.notifier = n
		}
	}
}

// WithOnSubmit registers the success callback of submit.
func WithOnSubmit(fn SubmitFunc) Option {
	return func(d *Dispatcher) {
		d.onSubmit = fn
	}
}

// WithSubmitMessages overrides the success text and the fallback failure
// text used when no field message can be found.
func WithSubmitMessages(success, failure string) Option {
	return func(d *Dispatcher) {
		if success != "" {
			d.successMessage = success
		}
		if failure != "" {
			d.failureMessage = failure
		}
	}
}

// Dispatcher binds actions to a form and a stepper.
type Dispatcher struct {
	form    *form.Form
	stepper Stepper

	logger         *slog.Logger
	notifier       Notifier
	onSubmit       SubmitFunc
	successMessage string
	failureMessage string

	mu     sync.Mutex
	status SubmitStatus
}

// NewDispatcher returns a dispatcher over f and stepper. A nil stepper
// makes navigation actions no-ops.
func NewDispatcher(f *form.Form, stepper Stepper, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		form:           f,
		stepper:        stepper,
		logger:         slog.Default(),
		notifier:       NotifierFunc(func(context.Context, Notification) {}),
		successMessage: DefaultSuccessMessage,
		failureMessage: DefaultFailureMessage,
		status:         StatusIdle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Status returns the outcome of the last submit.
func (d *Dispatcher) Status() SubmitStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// ResetStatus returns the submit status to idle.
func (d *Dispatcher) ResetStatus() {
	d.setStatus(StatusIdle)
}

// RestoreStatus sets the submit status, for sessions loaded from a store.
func (d *Dispatcher) RestoreStatus(status SubmitStatus) {
	if status == "" {
		status = StatusIdle
	}
	d.setStatus(status)
}

// DispatchNamed resolves name and args, then dispatches the action.
func (d *Dispatcher) DispatchNamed(ctx context.Context, name string, args ...any) Result {
	return d.Dispatch(ctx, element.ResolveAction(name, args))
}

// Dispatch executes act. Unknown and invalid actions are logged and leave
// state unchanged.
func (d *Dispatcher) Dispatch(ctx context.Context, act element.Action) Result {
	switch a := act.(type) {
	case element.SetValue:
		if err := d.form.SetValue(a.Name, a.Value); err != nil {
			d.logger.WarnContext(ctx, "action: setValue ignored", "field", a.Name, "error", err)
			return Result{}
		}
		return Result{Handled: true}
	case element.GetValue:
		value, _ := d.form.Value(a.Name)
		return Result{Value: value, Handled: true}
	case element.SetError:
		d.form.SetError(a.Name, a.Message)
		return Result{Handled: true}
	case element.ClearErrors:
		if a.Name == "" {
			d.form.ClearErrors()
		} else {
			d.form.ClearErrors(a.Name)
		}
		return Result{Handled: true}
	case element.Reset:
		d.form.Reset()
		d.setStatus(StatusIdle)
		return Result{Handled: true}
	case element.Validate:
		var ok bool
		if a.Name == "" {
			ok = d.form.Validate()
		} else {
			ok = d.form.Validate(a.Name)
		}
		return Result{Valid: &ok, Handled: true}
	case element.Submit:
		ok := d.submit(ctx)
		return Result{Valid: &ok, Handled: true}
	case element.GoPrevStep:
		if d.stepper == nil {
			return Result{Handled: true}
		}
		moved := d.stepper.Prev()
		return Result{Valid: &moved, Handled: true}
	case element.GoNextStep:
		if d.stepper == nil {
			return Result{Handled: true}
		}
		moved, err := d.stepper.Next(ctx)
		if err != nil {
			d.logger.WarnContext(ctx, "action: goNextStep interrupted", "error", err)
		}
		return Result{Valid: &moved, Handled: true}
	case element.GetCurrentStep:
		step := 0
		if d.stepper != nil {
			step = d.stepper.CurrentStep()
		}
		return Result{Value: step, Handled: true}
	case element.Invalid:
		d.logger.WarnContext(ctx, "action: invalid arguments", "action", a.Name, "args", a.Args, "error", a.Err)
		return Result{}
	case element.Unknown:
		d.logger.WarnContext(ctx, "action: not found", "action", a.Name)
		return Result{}
	default:
		d.logger.WarnContext(ctx, "action: nothing to dispatch")
		return Result{}
	}
}

func (d *Dispatcher) submit(ctx context.Context) bool {
	d.setStatus(StatusSubmitting)

	if !d.form.Validate() {
		issues := d.form.Errors()
		message := validation.FirstMessage(issues)
		if message == "" {
			message = d.failureMessage
		}
		d.setStatus(StatusError)
		d.notifier.Notify(ctx, Notification{Level: LevelError, Message: message})
		d.logger.WarnContext(ctx, "action: submit validation failed", "errors", issues.Messages())
		return false
	}

	answers := d.form.Values()
	if d.onSubmit != nil {
		if err := d.onSubmit(ctx, answers); err != nil {
			d.setStatus(StatusError)
			d.notifier.Notify(ctx, Notification{Level: LevelError, Message: d.failureMessage})
			d.logger.ErrorContext(ctx, "action: submit callback failed", "error", err)
			return false
		}
	}

	d.setStatus(StatusSuccess)
	d.notifier.Notify(ctx, Notification{Level: LevelSuccess, Message: d.successMessage})
	d.logger.InfoContext(ctx, "action: form submitted", "fields", len(answers))
	return true
}

func (d *Dispatcher) setStatus(status SubmitStatus) {
	d.mu.Lock()
	d.status = status
	d.mu.Unlock()
}
