package assistant

import (
	"fmt"
	"strings"
)

// Action is a toolbar rewrite request.
type Action int

const (
	ActionImprove Action = iota
	ActionShorten
	ActionExpand
	ActionFix
	ActionCustom
)

// Actions lists the toolbar entries in display order.
var Actions = []Action{ActionImprove, ActionShorten, ActionExpand, ActionFix, ActionCustom}

func (a Action) String() string {
	switch a {
	case ActionImprove:
		return "improve"
	case ActionShorten:
		return "shorten"
	case ActionExpand:
		return "expand"
	case ActionFix:
		return "fix"
	case ActionCustom:
		return "custom"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Label is the title-cased name shown in the toolbar.
func (a Action) Label() string {
	switch a {
	case ActionFix:
		return "Fix grammar"
	case ActionCustom:
		return "Custom…"
	}
	name := a.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// Instruction returns the rewrite instruction for the action. Custom actions
// use the trimmed custom text; an empty result means there is nothing to do.
func (a Action) Instruction(custom string) string {
	if a == ActionCustom {
		return strings.TrimSpace(custom)
	}
	return fmt.Sprintf("Please %s this text.", a.String())
}

// ParseAction maps a toolbar name back to its Action.
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, a := range Actions {
		if a.String() == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}
