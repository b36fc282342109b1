// Package policy decides whether a user may perform an action on a resource.
//
// Role gates at the router admit a request; Can then applies the rules that
// depend on the record itself, such as ownership.
package policy

import "github.com/inkwell-cms/apiserver/types"

// Kind identifies the type of a resource.
type Kind string

const (
	KindContent  Kind = "content"
	KindMedia    Kind = "media"
	KindCategory Kind = "category"
	KindUser     Kind = "user"
)

// Action is an operation on a resource.
type Action string

const (
	ActionRead       Action = "read"
	ActionUpdate     Action = "update"
	ActionPublish    Action = "publish"
	ActionDelete     Action = "delete"
	ActionChangeRole Action = "change_role"
)

// Resource describes the record an action targets. OwnerID is the author of
// a content article, the uploader of a media item, or the user id itself for
// user resources.
type Resource struct {
	Kind    Kind
	ID      string
	OwnerID string
}

// Decision is the outcome of an evaluation.
type Decision int

const (
	Deny Decision = iota
	Allow
	// DenySelf marks an action that is refused only because the subject
	// targets their own account.
	DenySelf
)

// Evaluator holds no state; the zero value is ready to use.
type Evaluator struct{}

// Can reports whether subject may perform action on resource.
func (Evaluator) Can(subject types.User, resource Resource, action Action) bool {
	return Evaluate(subject, resource, action) == Allow
}

// Evaluate returns the decision for subject performing action on resource.
func Evaluate(subject types.User, resource Resource, action Action) Decision {
	if subject.ID == "" {
		return Deny
	}

	switch resource.Kind {
	case KindContent:
		switch action {
		case ActionRead:
			return Allow
		case ActionUpdate, ActionPublish, ActionDelete:
			return ownerOrAdmin(subject, resource)
		}
	case KindMedia:
		switch action {
		case ActionRead:
			return Allow
		case ActionDelete:
			return ownerOrAdmin(subject, resource)
		}
	case KindCategory:
		if action == ActionRead {
			return Allow
		}
		return adminOnly(subject)
	case KindUser:
		switch action {
		case ActionRead, ActionUpdate:
			return ownerOrAdmin(subject, resource)
		case ActionChangeRole:
			return adminOnly(subject)
		case ActionDelete:
			if !subject.IsAdmin() {
				return Deny
			}
			if resource.ID == subject.ID {
				return DenySelf
			}
			return Allow
		}
	}
	return Deny
}

func ownerOrAdmin(subject types.User, resource Resource) Decision {
	if subject.IsAdmin() || (resource.OwnerID != "" && resource.OwnerID == subject.ID) {
		return Allow
	}
	return Deny
}

func adminOnly(subject types.User) Decision {
	if subject.IsAdmin() {
		return Allow
	}
	return Deny
}
