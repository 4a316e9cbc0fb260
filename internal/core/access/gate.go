// Package access decides whether a session may perform a protected action.
package access

import (
	"fmt"

	"github.com/huellitas/vetrecords/internal/core/domain"
)

// Action names a protected operation.
type Action string

const (
	ActionRegisterUser        Action = "register-user"
	ActionManageUsers         Action = "manage-users"
	ActionManageProducts      Action = "manage-products"
	ActionRecordClinicalVisit Action = "record-clinical-visit"
	ActionViewClinicalHistory Action = "view-clinical-history"
	ActionManagePets          Action = "manage-pets"
	ActionManageAppointments  Action = "manage-appointments"
	ActionBrowseRecords       Action = "browse-records"
	ActionSession             Action = "session"
)

var anyRole = []domain.Role{domain.RoleAdministrator, domain.RoleVeterinarian, domain.RoleStaff}

// policy is the static action -> allowed roles table. There is no role
// hierarchy: an administrator only gets what is listed for it.
var policy = map[Action][]domain.Role{
	ActionRegisterUser:        {domain.RoleAdministrator},
	ActionManageUsers:         {domain.RoleAdministrator},
	ActionManageProducts:      {domain.RoleAdministrator},
	ActionRecordClinicalVisit: {domain.RoleVeterinarian},
	ActionViewClinicalHistory: {domain.RoleVeterinarian, domain.RoleAdministrator},
	ActionManagePets:          anyRole,
	ActionManageAppointments:  anyRole,
	ActionBrowseRecords:       anyRole,
	ActionSession:             anyRole,
}

// Reason explains a denial.
type Reason string

const (
	ReasonUnauthenticated  Reason = "unauthenticated"
	ReasonInsufficientRole Reason = "insufficient_role"
)

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Err returns nil when allowed, otherwise an error wrapping domain.ErrForbidden.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonUnauthenticated:
		return fmt.Errorf("%w: not logged in", domain.ErrForbidden)
	default:
		return fmt.Errorf("%w: insufficient role", domain.ErrForbidden)
	}
}

// Authorize allows identity iff it is present and its role is in allowed.
func Authorize(identity *domain.SessionIdentity, allowed []domain.Role) Decision {
	if identity == nil {
		return Decision{Reason: ReasonUnauthenticated}
	}
	for _, r := range allowed {
		if identity.Role == r {
			return Decision{Allowed: true}
		}
	}
	return Decision{Reason: ReasonInsufficientRole}
}

// Check authorizes identity against the roles registered for a. Unknown
// actions have no roles and are always denied.
func Check(identity *domain.SessionIdentity, a Action) Decision {
	return Authorize(identity, policy[a])
}
