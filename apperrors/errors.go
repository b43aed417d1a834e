// Package apperrors defines the stable error kinds the service layer
// returns. Handlers match them with errors.Is and map each kind to an
// HTTP status; services wrap them with fmt.Errorf("%w: ...") to attach
// detail without losing the kind.
package apperrors

import "errors"

var (
	// ErrValidation covers malformed, missing or out-of-enum input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the requested entity id did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller is authenticated but is not the
	// creator of the target entity (or, for notifications, not the
	// assignee).
	ErrForbidden = errors.New("forbidden")

	// ErrAssigneeNotFound means an assignedTo value referenced a user
	// that does not exist.
	ErrAssigneeNotFound = errors.New("assigned user not found")

	// ErrLimitExceeded means the caller already owns the maximum number
	// of projects.
	ErrLimitExceeded = errors.New("project limit reached")

	// ErrEmailTaken means registration used an email that already has an
	// account.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials is returned for any login failure, whether
	// the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCascadeIncomplete means a project delete removed the project's
	// tasks but failed to remove the project itself. The two steps are
	// not wrapped in a transaction, so operators need to see this case
	// distinctly from a clean failure.
	ErrCascadeIncomplete = errors.New("project tasks removed but project delete failed")
)
