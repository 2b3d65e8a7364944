package resource

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidResourceSpec is matched by InvalidResourceSpecError
var ErrInvalidResourceSpec = errors.New("invalid resource spec")

// Reason classifies an InvalidResourceSpecError
type Reason int

const (
	// MixedForms: "type/name" tokens combined with bare type tokens
	MixedForms Reason = iota
	// UnknownType: a type token matched neither an alias nor discovery
	UnknownType
	// Empty: no resource type was given
	Empty
	// EmptyName: a "type/name" token or name argument with no name
	EmptyName
)

// InvalidResourceSpecError reports resource arguments that cannot be resolved
type InvalidResourceSpecError struct {
	Reason Reason
	Token  string
	// Suggestions are close matches for an unknown type
	Suggestions []string
}

func (e *InvalidResourceSpecError) Error() string {
	switch e.Reason {
	case MixedForms:
		return "there is no need to specify a resource type as a separate argument when passing arguments in resource/name form (e.g. 'rk get resource/<resource_name>' instead of 'rk get resource resource/<resource_name>')"
	case UnknownType:
		msg := fmt.Sprintf("the server doesn't have a resource type %q", e.Token)
		if len(e.Suggestions) > 0 {
			msg += fmt.Sprintf(", did you mean %s?", strings.Join(e.Suggestions, ", "))
		}
		return msg
	case Empty:
		return "you must specify the type of resource to get"
	case EmptyName:
		return fmt.Sprintf("arguments in resource/name form must have a single resource and name: %q", e.Token)
	default:
		return ErrInvalidResourceSpec.Error()
	}
}

// Is lets errors.Is(err, ErrInvalidResourceSpec) match
func (e *InvalidResourceSpecError) Is(target error) bool {
	return target == ErrInvalidResourceSpec
}
