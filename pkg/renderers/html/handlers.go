package html

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-surveygen/pkg/action"
	"github.com/goliatone/go-surveygen/pkg/element"
	"github.com/goliatone/go-surveygen/pkg/render"
	"github.com/goliatone/go-surveygen/pkg/wizard"
)

type walkContext = render.Context[string]

const defaultMaxRating = 5

func (r *Renderer) table() render.Table[string] {
	return render.Table[string]{
		Container:      r.container,
		Text:           r.text,
		ProgressBar:    r.progressBar,
		StepIndicator:  r.stepIndicator,
		SurveyForm:     r.surveyForm,
		Form:           r.form,
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
	}
}

func (r *Renderer) container(c *walkContext, el *element.Element, children []string) (string, error) {
	classes := []string{"sg-container", el.ClassName}
	if gap := strings.TrimSpace(el.Gap); gap != "" {
		classes = append(classes, "sg-gap-"+gap)
	}
	return r.render(c, "container", map[string]any{
		"id":       el.ID,
		"classes":  classes,
		"style":    el.Style.Inline(element.StatusDefault),
		"children": strings.Join(children, ""),
	})
}

func (r *Renderer) text(c *walkContext, el *element.Element, children []string) (string, error) {
	return r.render(c, "text", map[string]any{
		"tag":      textTag(el.Type),
		"id":       el.ID,
		"classes":  []string{"sg-text", el.ClassName},
		"style":    el.Style.Inline(element.StatusDefault),
		"content":  r.policy.Sanitize(el.Content),
		"children": strings.Join(children, ""),
	})
}

func (r *Renderer) progressBar(c *walkContext, el *element.Element, children []string) (string, error) {
	classes := []string{"sg-progress", el.ClassName}
	if sticky := strings.TrimSpace(el.Sticky); sticky != "" {
		classes = append(classes, "sg-progress-sticky-"+sticky)
	}
	var answered, total, percent int
	if c.Session != nil {
		p := c.Session.Progress()
		answered, total, percent = p.Answered, p.Total, p.Percent
	}
	return r.render(c, "progress_bar", map[string]any{
		"classes":         classes,
		"percent":         percent,
		"count":           render.Labelf(c.Options, render.KeyProgressCount, answered, total),
		"show_count":      el.ShowCount,
		"show_percentage": el.ShowPercentage,
		"children":        strings.Join(children, ""),
	})
}

func (r *Renderer) stepIndicator(c *walkContext, el *element.Element, children []string) (string, error) {
	var statuses []wizard.StepStatus
	if c.Session != nil {
		statuses = c.Session.Wizard.Steps()
	}
	steps := make([]map[string]any, 0, len(statuses))
	for i, status := range statuses {
		step := map[string]any{
			"number": i + 1,
			"status": string(status),
		}
		if i < len(el.Labels) {
			step["label"] = el.Labels[i]
		}
		steps = append(steps, step)
	}
	return r.render(c, "step_indicator", map[string]any{
		"classes":  []string{"sg-steps", el.ClassName},
		"steps":    steps,
		"children": strings.Join(children, ""),
	})
}

// surveyForm renders the session's survey form through its wizard: the
// current step content, then the visible navigation actions. Other survey
// form nodes render their children as is.
func (r *Renderer) surveyForm(c *walkContext, el *element.Element, _ []string) (string, error) {
	data := map[string]any{
		"id":      el.ID,
		"classes": []string{"sg-survey", el.ClassName},
		"action":  c.Options.Action,
	}

	s := c.Session
	if s == nil || s.SurveyForm() != el {
		data["content"] = strings.Join(c.RenderList(el.Children), "")
		return r.render(c, "survey_form", data)
	}

	state := s.Wizard.State()
	data["step"] = state.CurrentStep
	data["total_steps"] = max(1, s.Wizard.Layout().TotalSteps)
	data["status"] = string(s.Dispatcher.Status())
	data["hidden"] = render.SortedHiddenFields(render.MergeHiddenFields(c.Options.HiddenFields, render.SessionID(s.ID())))
	data["form_errors"] = render.SessionErrors(s, c.Options).Form
	data["content"] = strings.Join(c.RenderList(s.Wizard.Content()), "")

	if actions := s.Wizard.VisibleActions(); actions != nil {
		out, err := r.render(c, "actions", map[string]any{
			"classes":  []string{"sg-actions", actions.ClassName},
			"children": strings.Join(c.RenderList(actions.Children), ""),
		})
		if err != nil {
			return "", err
		}
		data["actions"] = out
	}
	return r.render(c, "survey_form", data)
}

func (r *Renderer) form(c *walkContext, el *element.Element, children []string) (string, error) {
	return r.render(c, "form", map[string]any{
		"id":       el.ID,
		"classes":  []string{"sg-form", el.ClassName},
		"style":    el.Style.Inline(element.StatusDefault),
		"title":    el.Title,
		"children": strings.Join(children, ""),
	})
}

func (r *Renderer) singleChoice(c *walkContext, el *element.Element, _ []string) (string, error) {
	current := valueString(fieldValue(c, el.Name))
	options := make([]map[string]any, 0, len(el.Children))
	for i, opt := range el.Options() {
		options = append(options, map[string]any{
			"id":      optionID(el, i),
			"value":   opt.Value,
			"label":   opt.OptionLabel(),
			"checked": current != "" && current == opt.Value,
		})
	}
	data := r.fieldData(c, el, "sg-single-choice")
	data["options"] = options
	return r.render(c, "single_choice", data)
}

func (r *Renderer) multipleChoice(c *walkContext, el *element.Element, _ []string) (string, error) {
	selected := make(map[string]struct{})
	for _, value := range valueStrings(fieldValue(c, el.Name)) {
		selected[value] = struct{}{}
	}
	options := make([]map[string]any, 0, len(el.Children))
	for i, opt := range el.Options() {
		_, checked := selected[opt.Value]
		options = append(options, map[string]any{
			"id":      optionID(el, i),
			"value":   opt.Value,
			"label":   opt.OptionLabel(),
			"checked": checked,
		})
	}
	data := r.fieldData(c, el, "sg-multiple-choice")
	data["options"] = options
	return r.render(c, "multiple_choice", data)
}

func (r *Renderer) textInput(c *walkContext, el *element.Element, _ []string) (string, error) {
	rows := el.Rows
	if rows <= 0 {
		rows = 4
	}
	data := r.fieldData(c, el, "sg-text-input")
	data["control_id"] = controlID(el)
	data["value"] = valueString(fieldValue(c, el.Name))
	data["placeholder"] = el.Placeholder
	data["multiline"] = el.Multiline
	data["rows"] = rows
	return r.render(c, "text_input", data)
}

func (r *Renderer) rating(c *walkContext, el *element.Element, _ []string) (string, error) {
	maxRating := el.MaxRating
	if maxRating <= 0 {
		maxRating = defaultMaxRating
	}
	current := valueString(fieldValue(c, el.Name))
	items := make([]map[string]any, 0, maxRating)
	for i := 1; i <= maxRating; i++ {
		value := strconv.Itoa(i)
		items = append(items, map[string]any{
			"id":      optionID(el, i-1),
			"value":   value,
			"checked": value == current,
		})
	}
	data := r.fieldData(c, el, "sg-rating-field")
	data["items"] = items
	data["left_label"] = el.LeftLabel
	data["right_label"] = el.RightLabel
	return r.render(c, "rating", data)
}

func (r *Renderer) option(c *walkContext, el *element.Element, _ []string) (string, error) {
	return r.render(c, "option", map[string]any{
		"classes": []string{"sg-option", el.ClassName},
		"value":   el.Value,
		"label":   el.OptionLabel(),
	})
}

func (r *Renderer) button(c *walkContext, el *element.Element, _ []string) (string, error) {
	value := action.Encode(el)
	buttonType := strings.TrimSpace(el.ButtonType)
	if buttonType == "" {
		buttonType = "button"
		if value != "" {
			buttonType = "submit"
		}
	}

	variant := "sg-button-primary"
	if el.Role == element.RolePrevButton {
		variant = "sg-button-secondary"
	}
	data := map[string]any{
		"id":      el.ID,
		"type":    buttonType,
		"classes": []string{"sg-button", variant, "sg-" + string(el.Role), el.ClassName},
		"action":  value,
		"label":   render.ButtonLabel(c.Options, el),
		"style":   el.Style.Inline(element.StatusDefault),
	}
	if el.Role == element.RoleSubmitButton {
		data["loading_label"] = render.Label(c.Options, render.KeySubmitting, el.LoadingLabel)
		if c.Session != nil && c.Session.Dispatcher.Status() == action.StatusSubmitting {
			data["disabled"] = true
		}
	}
	return r.render(c, "button", data)
}

// completePage renders only after a successful submit.
func (r *Renderer) completePage(c *walkContext, el *element.Element, children []string) (string, error) {
	if c.Session == nil || !c.Session.Submitted() {
		return "", nil
	}
	actions := make([]map[string]any, 0, len(el.Actions))
	for i, act := range el.Actions {
		variant := strings.TrimSpace(act.Variant)
		if variant == "" {
			variant = "secondary"
			if i == 0 {
				variant = "primary"
			}
		}
		entry := map[string]any{
			"label":   act.Label,
			"href":    strings.TrimSpace(act.Href),
			"variant": variant,
		}
		if act.Action != nil {
			entry["action"] = act.Action.Handler()
		} else if handler := strings.TrimSpace(act.OnClick); handler != "" {
			entry["action"] = handler
		}
		actions = append(actions, entry)
	}
	return r.render(c, "complete_page", map[string]any{
		"id":          el.ID,
		"classes":     []string{"sg-complete", el.ClassName},
		"title":       render.Label(c.Options, render.KeyCompleteTitle, el.Title),
		"message":     r.policy.Sanitize(el.Message),
		"actions":     actions,
		"form_action": c.Options.Action,
		"hidden":      render.SortedHiddenFields(render.MergeHiddenFields(c.Options.HiddenFields, render.SessionID(c.Session.ID()))),
		"children":    strings.Join(children, ""),
	})
}

func (r *Renderer) fieldData(c *walkContext, el *element.Element, class string) map[string]any {
	label := el.Title
	if label == "" {
		label = el.Label
	}
	required := el.Required || (el.Validation != nil && el.Validation.Required)

	var errs []string
	if c.Session != nil && el.Name != "" {
		errs = render.SessionErrors(c.Session, c.Options).For(el.Name)
	}
	classes := []string{"sg-field", class, el.ClassName}
	if len(errs) > 0 {
		classes = append(classes, "sg-field-error")
	}
	return map[string]any{
		"name":        el.Name,
		"label":       label,
		"description": r.policy.Sanitize(el.Description),
		"required":    required,
		"errors":      errs,
		"classes":     classes,
	}
}

func fieldValue(c *walkContext, name string) any {
	if c.Session == nil || name == "" {
		return nil
	}
	value, _ := c.Session.Form.Value(name)
	return value
}

func valueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func valueStrings(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, valueString(item))
		}
		return out
	case nil:
		return nil
	default:
		return []string{valueString(v)}
	}
}

func controlID(el *element.Element) string {
	if id := strings.TrimSpace(el.ID); id != "" {
		return id
	}
	if name := strings.TrimSpace(el.Name); name != "" {
		return "sg-" + name
	}
	return ""
}

func optionID(el *element.Element, index int) string {
	return fmt.Sprintf("%s-%d", controlID(el), index)
}

func textTag(hint string) string {
	switch tag := strings.ToLower(strings.TrimSpace(hint)); tag {
	case "h1", "h2", "h3", "h4", "h5", "h6", "p", "span", "strong", "small", "label":
		return tag
	default:
		return "p"
	}
}
