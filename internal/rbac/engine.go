package rbac

import (
	"fmt"
)

// Checker answers role questions against a validated Config. It holds no
// mutable state and is safe for concurrent use.
type Checker struct {
	config    Config
	roleIndex map[Role]int
	topRole   Role
}

// New creates a Checker from a validated Config
func New(cfg Config) (*Checker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rc := &Checker{config: cfg}
	rc.buildLookups()
	return rc, nil
}

// MustNew creates a Checker and panics on invalid config
func MustNew(cfg Config) *Checker {
	rc, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf(errMustNewPanicFmt, err))
	}
	return rc
}

func (rc *Checker) buildLookups() {
	rc.roleIndex = make(map[Role]int, len(rc.config.Roles))
	top := 0
	for _, rd := range rc.config.Roles {
		rc.roleIndex[rd.Name] = rd.Level
		if rd.Level > top {
			top = rd.Level
			rc.topRole = rd.Name
		}
	}
}

// RequireRole checks if the subject has at least the minimum required role.
// Buyers, empty roles and roles outside the configuration are always denied.
func (rc *Checker) RequireRole(subject *AuthSubject, minRole Role) error {
	if subject == nil {
		return fmt.Errorf("%w: %w", ErrDenied, ErrNilSubject)
	}
	if subject.Kind != KindStaff {
		return fmt.Errorf("%w: %s", ErrDenied, errDeniedNotStaff)
	}
	if _, ok := rc.roleIndex[subject.Role]; !ok {
		return fmt.Errorf("%w: "+errDeniedUnknownRoleFmt, ErrDenied, subject.Role)
	}
	if !rc.IsRoleElevated(subject.Role, minRole) {
		return fmt.Errorf("%w: "+errDeniedMinRoleRequiredFmt, ErrDenied, minRole, subject.Role)
	}
	return nil
}

// IsRoleElevated checks if role1 has equal or higher privilege than role2
func (rc *Checker) IsRoleElevated(role1, role2 Role) bool {
	level1, exists1 := rc.roleIndex[role1]
	level2, exists2 := rc.roleIndex[role2]
	if !exists1 || !exists2 {
		return false
	}
	return level1 >= level2
}

// CanGrant reports whether actor may create an account holding target. The
// top role may grant any role including its own; everyone else only roles
// strictly below theirs.
func (rc *Checker) CanGrant(actor, target Role) bool {
	actorLevel, ok1 := rc.roleIndex[actor]
	targetLevel, ok2 := rc.roleIndex[target]
	if !ok1 || !ok2 {
		return false
	}
	if actor == rc.topRole {
		return true
	}
	return actorLevel > targetLevel
}

// IsTopRole reports whether role is the highest configured tier.
func (rc *Checker) IsTopRole(role Role) bool {
	return role != "" && role == rc.topRole
}

// ValidateRole validates a role string against configured roles
func (rc *Checker) ValidateRole(role string) (Role, error) {
	r := Role(role)
	if _, ok := rc.roleIndex[r]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidRole, role)
}
