package action

import (
	"strings"

	"github.com/goliatone/go-surveygen/pkg/element"
)

// elementRef prefixes posted action values that point at an element id
// instead of naming a handler.
const elementRef = "#"

// Encode returns the value a control posts to trigger the action of el.
// Elements with an id and an explicit event are referenced by id so their
// arguments survive the round trip; everything else posts the handler name.
// An element without an action encodes to "".
func Encode(el *element.Element) string {
	act, ok := element.ActionOf(el)
	if !ok {
		return ""
	}
	if el.Event != nil && strings.TrimSpace(el.ID) != "" {
		return elementRef + strings.TrimSpace(el.ID)
	}
	return act.Handler()
}

// Decode resolves a posted action value against doc. Id references resolve
// to the action of the referenced element; plain handler names resolve
// without arguments. Unresolvable values decode to Unknown so dispatch logs
// and ignores them.
func Decode(doc element.Document, value string) element.Action {
	value = strings.TrimSpace(value)
	if id, ok := strings.CutPrefix(value, elementRef); ok {
		if id == "" {
			return element.Unknown{Name: value}
		}
		if act, found := element.ActionOf(doc.Find(id)); found {
			return act
		}
		return element.Unknown{Name: value}
	}
	return element.ResolveAction(value, nil)
}
