package wizard

import (
	"context"
	"sync"

	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/validation"
)

// Validator checks the named fields and reports whether they all pass.
type Validator interface {
	Validate(names ...string) bool
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(names ...string) bool

// Validate implements Validator.
func (fn ValidatorFunc) Validate(names ...string) bool {
	return fn(names...)
}

// State is the navigation cursor of a wizard.
type State struct {
	CurrentStep       int      `json:"currentStep"`
	CurrentFieldNames []string `json:"currentFieldNames"`
	IsLastStep        bool     `json:"isLastStep"`
}

// StepStatus describes one step relative to the cursor.
type StepStatus string

const (
	StepCompleted StepStatus = "completed"
	StepCurrent   StepStatus = "current"
	StepPending   StepStatus = "pending"
)

// Wizard drives linear navigation over the steps of a survey form. A
// single-step wizard treats every child as content and is always on its
// last step.
type Wizard struct {
	mu        sync.RWMutex
	layout    Layout
	validator Validator
	single    bool
	allFields []string
	state     State
}

// New partitions form and returns a wizard positioned on step 0.
func New(form *element.Element, validator Validator) (*Wizard, error) {
	layout, err := Partition(form)
	if err != nil {
		return nil, err
	}
	w := &Wizard{layout: layout, validator: validator}
	w.enter(0)
	return w, nil
}

// Single returns a wizard over a form rendered as one page.
func Single(form *element.Element, validator Validator) *Wizard {
	var children []*element.Element
	if form != nil {
		children = form.Children
	}
	w := &Wizard{
		layout: Layout{
			Content:    children,
			TotalSteps: 1,
		},
		validator: validator,
		single:    true,
		allFields: validation.FieldNames(validation.CollectFields(children)),
	}
	w.enter(0)
	return w
}

// MultiStep reports whether the wizard partitions content by formStep.
func (w *Wizard) MultiStep() bool {
	return !w.single
}

// Layout returns the partitioned form.
func (w *Wizard) Layout() Layout {
	return w.layout
}

// State returns a copy of the cursor.
func (w *Wizard) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := w.state
	out.CurrentFieldNames = append([]string(nil), w.state.CurrentFieldNames...)
	return out
}

// CurrentStep returns the current step index.
func (w *Wizard) CurrentStep() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.CurrentStep
}

// Next validates the fields of the current step and advances when they pass
// and the current step is not the last. A step without fields always
// advances unless it is the last. The returned flag reports whether the
// cursor moved.
func (w *Wizard) Next(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	w.mu.RLock()
	state := w.state
	w.mu.RUnlock()

	if len(state.CurrentFieldNames) > 0 && w.validator != nil {
		if !w.validator.Validate(state.CurrentFieldNames...) {
			return false, nil
		}
	}
	if state.IsLastStep {
		return false, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.CurrentStep != state.CurrentStep {
		return false, nil
	}
	w.enter(state.CurrentStep + 1)
	return true, nil
}

// Prev moves back one step. It is a no-op on step 0.
func (w *Wizard) Prev() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.CurrentStep == 0 {
		return false
	}
	w.enter(w.state.CurrentStep - 1)
	return true
}

// GoTo positions the cursor on step, clamped to the available steps. Used to
// restore persisted sessions.
func (w *Wizard) GoTo(step int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if step < 0 || w.single {
		step = 0
	}
	if last := w.lastStep(); step > last {
		step = last
	}
	w.enter(step)
}

// Content returns the nodes shown on the current step.
func (w *Wizard) Content() []*element.Element {
	if w.single {
		return w.layout.Content
	}
	return w.layout.StepContent(w.CurrentStep())
}

// VisibleActions returns a copy of the actions node holding prev when the
// cursor is past step 0, then submit on the last step or next otherwise.
// Single-step wizards have no actions node and return nil.
func (w *Wizard) VisibleActions() *element.Element {
	if w.single || w.layout.Actions == nil {
		return nil
	}
	state := w.State()
	slots := w.layout.Actions.Children

	visible := make([]*element.Element, 0, 2)
	if state.CurrentStep > 0 && slots[SlotPrev] != nil {
		visible = append(visible, slots[SlotPrev])
	}
	if state.IsLastStep {
		if slots[SlotSubmit] != nil {
			visible = append(visible, slots[SlotSubmit])
		}
	} else if slots[SlotNext] != nil {
		visible = append(visible, slots[SlotNext])
	}
	return w.layout.Actions.WithChildren(visible)
}

// Steps returns the status of every step for step indicators.
func (w *Wizard) Steps() []StepStatus {
	current := w.CurrentStep()
	out := make([]StepStatus, w.layout.TotalSteps)
	for i := range out {
		switch {
		case i < current:
			out[i] = StepCompleted
		case i == current:
			out[i] = StepCurrent
		default:
			out[i] = StepPending
		}
	}
	return out
}

// Teardown resets the cursor to its empty initial value.
func (w *Wizard) Teardown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = State{}
}

// enter moves to step and recomputes the derived fields. Callers hold mu or
// own the wizard exclusively.
func (w *Wizard) enter(step int) {
	if w.single {
		w.state = State{
			CurrentStep:       0,
			CurrentFieldNames: append([]string(nil), w.allFields...),
			IsLastStep:        true,
		}
		return
	}
	w.state = State{
		CurrentStep:       step,
		CurrentFieldNames: append([]string(nil), w.layout.Fields[step]...),
		IsLastStep:        !w.layout.HasStep(step + 1),
	}
}

func (w *Wizard) lastStep() int {
	last := 0
	for step := range w.layout.Fields {
		if step > last {
			last = step
		}
	}
	return last
}
