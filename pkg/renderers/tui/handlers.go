package tui

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-surveygen/pkg/action"
	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/render"
	"github.com/goliatone/go-surveygen/pkg/validation"
	"github.com/goliatone/go-surveygen/pkg/wizard"
)

type walkContext = render.Context[Block]

const defaultMaxRating = 5

// Authored text may carry markup meant for the HTML renderer.
var plainPolicy = bluemonday.StrictPolicy()

func plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(s)))
}

func (r *Renderer) table() render.Table[Block] {
	return render.Table[Block]{
		Container:      r.sequence,
		Text:           r.text,
		ProgressBar:    r.progressBar,
		StepIndicator:  r.stepIndicator,
		SurveyForm:     r.surveyForm,
		Form:           r.sequence,
		SingleChoice:   r.singleChoice,
		MultipleChoice: r.multipleChoice,
		TextInput:      r.textInput,
		Rating:         r.rating,
		Option:         r.option,
		Button:         r.button,
		PrevButton:     r.button,
		NextButton:     r.button,
		SubmitButton:   r.button,
		CompletePage:   r.completePage,
		Fallback:       r.sequence,
	}
}

func (r *Renderer) sequence(_ *walkContext, _ *element.Element, children []Block) (Block, error) {
	if len(children) == 0 {
		return nil, nil
	}
	return func(ctx context.Context) error {
		return runAll(ctx, children)
	}, nil
}

func (r *Renderer) text(_ *walkContext, el *element.Element, _ []Block) (Block, error) {
	content := plain(el.Content)
	if content == "" {
		return nil, nil
	}
	return func(ctx context.Context) error {
		if isHeading(el.Type) {
			return r.info(ctx, r.styles.title.Render(content))
		}
		return r.info(ctx, r.styles.text.Render(content))
	}, nil
}

func (r *Renderer) progressBar(c *walkContext, el *element.Element, _ []Block) (Block, error) {
	return func(ctx context.Context) error {
		p := c.Session.Progress()
		parts := []string{r.styles.progressBar(p.Percent)}
		if el.ShowCount {
			parts = append(parts, render.Labelf(c.Options, render.KeyProgressCount, p.Answered, p.Total))
		}
		if el.ShowPercentage {
			parts = append(parts, strconv.Itoa(p.Percent)+"%")
		}
		return r.info(ctx, strings.Join(parts, " "))
	}, nil
}

func (r *Renderer) stepIndicator(c *walkContext, el *element.Element, _ []Block) (Block, error) {
	return func(ctx context.Context) error {
		steps := c.Session.Wizard.Steps()
		if len(steps) == 0 {
			return nil
		}
		parts := make([]string, len(steps))
		for i, status := range steps {
			label := fmt.Sprintf("Step %d", i+1)
			if i < len(el.Labels) && strings.TrimSpace(el.Labels[i]) != "" {
				label = el.Labels[i]
			}
			switch status {
			case wizard.StepCompleted:
				parts[i] = r.styles.done.Render("✓ " + label)
			case wizard.StepCurrent:
				parts[i] = r.styles.current.Render("● " + label)
			default:
				parts[i] = r.styles.muted.Render("○ " + label)
			}
		}
		return r.info(ctx, strings.Join(parts, "  "))
	}, nil
}

// surveyForm drives the session survey: it prompts the current step, asks
// which visible action to take, dispatches it and repeats until submit
// succeeds. Declining the submit confirmation of a single-step form prompts
// the fields again. Other survey form nodes only show their children.
func (r *Renderer) surveyForm(c *walkContext, el *element.Element, _ []Block) (Block, error) {
	s := c.Session
	if s.SurveyForm() != el {
		return r.sequence(c, el, c.RenderList(el.Children))
	}
	return func(ctx context.Context) error {
		if title := plain(el.Title); title != "" {
			if err := r.info(ctx, r.styles.title.Render(title)); err != nil {
				return err
			}
		}
		for !s.Submitted() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := runAll(ctx, c.RenderList(s.Wizard.Content())); err != nil {
				return err
			}
			act, err := r.chooseAction(ctx, c)
			if err != nil {
				return err
			}
			if act == nil {
				continue
			}
			s.Dispatch(ctx, act)
			if err := r.flushNotifications(ctx, c); err != nil {
				return err
			}
		}
		return nil
	}, nil
}

type actionChoice struct {
	label string
	act   element.Action
}

func (r *Renderer) chooseAction(ctx context.Context, c *walkContext) (element.Action, error) {
	choices := actionChoices(c)
	switch len(choices) {
	case 0:
		return nil, ErrNoActions
	case 1:
		if _, ok := choices[0].act.(element.Submit); ok && !c.Session.Wizard.MultiStep() {
			confirmed, err := r.driver.Confirm(ctx, ConfirmConfig{
				Message: r.theme.PromptPrefix + choices[0].label + "?",
				Default: true,
			})
			if err != nil || !confirmed {
				return nil, err
			}
		}
		return choices[0].act, nil
	}

	labels := make([]string, len(choices))
	for i, choice := range choices {
		labels[i] = choice.label
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      r.theme.PromptPrefix + render.Label(c.Options, render.KeyChooseAction, ""),
		Options:      labels,
		DefaultIndex: len(labels) - 1,
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(choices) {
		return nil, fmt.Errorf("tui: action choice %d out of range", idx)
	}
	return choices[idx].act, nil
}

// actionChoices lists the visible wizard actions, or for single-step forms
// the buttons inside the content. A form without buttons submits.
func actionChoices(c *walkContext) []actionChoice {
	s := c.Session
	var buttons []*element.Element
	if visible := s.Wizard.VisibleActions(); visible != nil {
		buttons = visible.Children
	} else {
		buttons = collectButtons(s.Wizard.Content())
	}

	var choices []actionChoice
	for _, button := range buttons {
		act, ok := element.ActionOf(button)
		if !ok {
			continue
		}
		choices = append(choices, actionChoice{label: render.ButtonLabel(c.Options, button), act: act})
	}
	if len(choices) == 0 && s.Wizard.VisibleActions() == nil {
		choices = append(choices, actionChoice{
			label: render.Label(c.Options, render.KeySubmitLabel, ""),
			act:   element.Submit{},
		})
	}
	return choices
}

func collectButtons(elements []*element.Element) []*element.Element {
	var out []*element.Element
	for _, el := range elements {
		if el == nil {
			continue
		}
		if el.Role.IsButton() {
			out = append(out, el)
			continue
		}
		out = append(out, collectButtons(el.Children)...)
	}
	return out
}

func (r *Renderer) flushNotifications(ctx context.Context, c *walkContext) error {
	for _, n := range c.Session.Notifications().Drain() {
		var err error
		switch n.Level {
		case action.LevelError:
			err = r.errorLine(ctx, n.Message)
		case action.LevelSuccess:
			err = r.info(ctx, r.styles.success.Render(n.Message))
		default:
			err = r.info(ctx, r.styles.muted.Render(n.Message))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ask prompts until the answer passes the field rules. Invalid answers print
// the field issues and prompt again.
func (r *Renderer) ask(ctx context.Context, c *walkContext, el *element.Element, prompt func() (any, error)) error {
	for {
		value, err := prompt()
		if err != nil {
			return err
		}
		c.Session.Dispatch(ctx, element.SetValue{Name: el.Name, Value: value})
		issues := c.Session.Form.FieldErrors(el.Name)
		if len(issues) == 0 {
			return nil
		}
		for _, issue := range issues {
			if err := r.errorLine(ctx, issue.Message); err != nil {
				return err
			}
		}
	}
}

func (r *Renderer) message(el *element.Element) string {
	label := plain(el.Title)
	if label == "" {
		label = plain(el.Label)
	}
	if label == "" {
		label = el.Name
	}
	return r.theme.PromptPrefix + label
}

func help(el *element.Element) string {
	return plain(el.Description)
}

func (r *Renderer) singleChoice(c *walkContext, el *element.Element, _ []Block) (Block, error) {
	if el.Name == "" {
		return nil, nil
	}
	options := el.Options()
	if len(options) == 0 {
		return nil, fmt.Errorf("tui: single choice %q has no options", el.Name)
	}
	labels := optionLabels(options)
	return func(ctx context.Context) error {
		current, _ := c.Session.Form.Value(el.Name)
		return r.ask(ctx, c, el, func() (any, error) {
			idx, err := r.driver.Select(ctx, SelectConfig{
				Message:      r.message(el),
				Options:      labels,
				DefaultIndex: optionIndex(options, fmt.Sprint(current)),
				Help:         help(el),
			})
			if err != nil {
				return nil, err
			}
			if idx < 0 || idx >= len(options) {
				return nil, nil
			}
			return options[idx].Value, nil
		})
	}, nil
}

func (r *Renderer) multipleChoice(c *walkContext, el *element.Element, _ []Block) (Block, error) {
	if el.Name == "" {
		return nil, nil
	}
	options := el.Options()
	if len(options) == 0 {
		return nil, fmt.Errorf("tui: multiple choice %q has no options", el.Name)
	}
	labels := optionLabels(options)
	return func(ctx context.Context) error {
		current, _ := c.Session.Form.Value(el.Name)
		var defaults []int
		for _, v := range stringSlice(current) {
			if idx := optionIndex(options, v); idx >= 0 {
				defaults = append(defaults, idx)
			}
		}
		return r.ask(ctx, c, el, func() (any, error) {
			indices, err := r.driver.MultiSelect(ctx, SelectConfig{
				Message:  r.message(el),
				Options:  labels,
				Defaults: defaults,
				Help:     help(el),
			})
			if err != nil {
				return nil, err
			}
			picked := make([]any, 0, len(indices))
			for _, idx := range indices {
				if idx >= 0 && idx < len(options) {
					picked = append(picked, options[idx].Value)
				}
			}
			return picked, nil
		})
	}, nil
}

func (r *Renderer) textInput(c *walkContext, el *element.Element, _ []Block) (Block, error) {
	if el.Name == "" {
		return nil, nil
	}
	return func(ctx context.Context) error {
		current, _ := c.Session.Form.Value(el.Name)
		def := ""
		if s, ok := current.(string); ok {
			def = s
		}
		return r.ask(ctx, c, el, func() (any, error) {
			if el.Multiline {
				return r.driver.TextArea(ctx, TextAreaConfig{
					Message: r.message(el),
					Default: def,
					Help:    help(el),
				})
			}
			return r.driver.Input(ctx, InputConfig{
				Message:     r.message(el),
				Default:     def,
				Help:        help(el),
				Placeholder: el.Placeholder,
			})
		})
	}, nil
}

func (r *Renderer) rating(c *walkContext, el *element.Element, _ []Block) (Block, error) {
	if el.Name == "" {
		return nil, nil
	}
	top := el.MaxRating
	if top <= 0 {
		top = defaultMaxRating
	}
	labels := make([]string, top)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	hint := help(el)
	if el.LeftLabel != "" || el.RightLabel != "" {
		scale := fmt.Sprintf("1 = %s, %d = %s", plain(el.LeftLabel), top, plain(el.RightLabel))
		hint = strings.TrimSpace(strings.Join([]string{hint, scale}, " "))
	}
	return func(ctx context.Context) error {
		def := -1
		if current, ok := c.Session.Form.Value(el.Name); ok {
			if n, ok := validation.NumberOf(current); ok {
				def = int(n) - 1
			}
		}
		return r.ask(ctx, c, el, func() (any, error) {
			idx, err := r.driver.Select(ctx, SelectConfig{
				Message:      r.message(el),
				Options:      labels,
				DefaultIndex: def,
				Help:         hint,
			})
			if err != nil {
				return nil, err
			}
			if idx < 0 || idx >= top {
				return nil, nil
			}
			return idx + 1, nil
		})
	}, nil
}

func (r *Renderer) option(_ *walkContext, el *element.Element, _ []Block) (Block, error) {
	label := plain(el.OptionLabel())
	if label == "" {
		return nil, nil
	}
	return func(ctx context.Context) error {
		return r.info(ctx, r.styles.muted.Render("- "+label))
	}, nil
}

// Buttons are offered as action choices by the survey form loop.
func (r *Renderer) button(_ *walkContext, _ *element.Element, _ []Block) (Block, error) {
	return nil, nil
}

func (r *Renderer) completePage(c *walkContext, el *element.Element, _ []Block) (Block, error) {
	return func(ctx context.Context) error {
		if !c.Session.Submitted() {
			return nil
		}
		title := render.Label(c.Options, render.KeyCompleteTitle, plain(el.Title))
		if err := r.info(ctx, r.styles.title.Render(title)); err != nil {
			return err
		}
		if msg := plain(el.Message); msg != "" {
			if err := r.info(ctx, msg); err != nil {
				return err
			}
		}
		for _, a := range el.Actions {
			line := a.Label
			if a.Href != "" {
				line += " (" + a.Href + ")"
			}
			if err := r.info(ctx, r.styles.muted.Render("→ "+line)); err != nil {
				return err
			}
		}
		return nil
	}, nil
}

func optionLabels(options []*element.Element) []string {
	out := make([]string, len(options))
	for i, option := range options {
		out[i] = plain(option.OptionLabel())
	}
	return out
}

func optionIndex(options []*element.Element, value string) int {
	for i, option := range options {
		if option.Value == value {
			return i
		}
	}
	return -1
}

func stringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
