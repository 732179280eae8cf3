package wizard

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/validation"
)

// ErrInvalidLayout reports a survey form whose children cannot be split into
// tagged step content and a trailing actions node.
var ErrInvalidLayout = errors.New("wizard: invalid layout")

// Action slots of the trailing actions node, by position.
const (
	SlotPrev = iota
	SlotNext
	SlotSubmit
	slotCount
)

// Layout is a survey form split into step content and its actions node.
type Layout struct {
	Content    []*element.Element
	Actions    *element.Element
	TotalSteps int
	// Fields lists the field names owned by each step.
	Fields map[int][]string
}

// Partition splits the children of a multi-step survey form. Every content
// node must carry a formStep, step tags must run contiguously from 0 and
// stay below totalSteps, and the last child must hold exactly three action
// slots [prev, next, submit].
func Partition(form *element.Element) (Layout, error) {
	if form == nil {
		return Layout{}, fmt.Errorf("%w: nil form", ErrInvalidLayout)
	}
	if len(form.Children) < 2 {
		return Layout{}, fmt.Errorf("%w: form needs content and a trailing actions node", ErrInvalidLayout)
	}

	last := len(form.Children) - 1
	actions := form.Children[last]
	if actions == nil || len(actions.Children) != slotCount {
		return Layout{}, fmt.Errorf("%w: trailing actions node must have %d children [prev, next, submit]", ErrInvalidLayout, slotCount)
	}

	layout := Layout{
		Content: form.Children[:last],
		Actions: actions,
		Fields:  make(map[int][]string),
	}

	maxStep := -1
	for i, node := range layout.Content {
		if node == nil {
			return Layout{}, fmt.Errorf("%w: content node %d is null", ErrInvalidLayout, i)
		}
		if !node.HasStep() {
			return Layout{}, fmt.Errorf("%w: content node %d (%s) has no formStep", ErrInvalidLayout, i, node.Role)
		}
		step := node.Step()
		if step < 0 {
			return Layout{}, fmt.Errorf("%w: content node %d has negative formStep %d", ErrInvalidLayout, i, step)
		}
		if step > maxStep {
			maxStep = step
		}
		if _, ok := layout.Fields[step]; !ok {
			layout.Fields[step] = nil
		}
		names := validation.FieldNames(validation.CollectFields([]*element.Element{node}))
		layout.Fields[step] = append(layout.Fields[step], names...)
	}

	for step := 0; step <= maxStep; step++ {
		if _, ok := layout.Fields[step]; !ok {
			return Layout{}, fmt.Errorf("%w: no content tagged with formStep %d", ErrInvalidLayout, step)
		}
	}

	layout.TotalSteps = maxStep + 1
	if form.TotalSteps > 0 {
		if maxStep >= form.TotalSteps {
			return Layout{}, fmt.Errorf("%w: formStep %d exceeds totalSteps %d", ErrInvalidLayout, maxStep, form.TotalSteps)
		}
		layout.TotalSteps = form.TotalSteps
	}
	return layout, nil
}

// HasStep reports whether any content node is tagged with step.
func (l Layout) HasStep(step int) bool {
	for _, node := range l.Content {
		if node.Step() == step {
			return true
		}
	}
	return false
}

// StepContent returns the content nodes tagged with step, in order.
func (l Layout) StepContent(step int) []*element.Element {
	var out []*element.Element
	for _, node := range l.Content {
		if node.Step() == step {
			out = append(out, node)
		}
	}
	return out
}
