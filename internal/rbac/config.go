package rbac

import (
	"errors"
	"fmt"
)

// Config holds the role hierarchy
type Config struct {
	Roles []RoleDefinition
}

// Validate checks internal consistency of the Config
func (c *Config) Validate() error {
	if len(c.Roles) == 0 {
		return errors.New(errConfigRolesEmpty)
	}

	roleNames := make(map[Role]bool, len(c.Roles))
	roleLevels := make(map[int]Role, len(c.Roles))
	for _, rd := range c.Roles {
		if rd.Name == "" {
			return errors.New(errConfigRoleNameEmpty)
		}
		if rd.Level <= 0 {
			return fmt.Errorf(errConfigRoleLevelFmt, rd.Name, rd.Level)
		}
		if roleNames[rd.Name] {
			return fmt.Errorf(errConfigDuplicateRoleNameFmt, rd.Name)
		}
		if existing, dup := roleLevels[rd.Level]; dup {
			return fmt.Errorf(errConfigDuplicateRoleLevelFmt, rd.Level, existing, rd.Name)
		}
		roleNames[rd.Name] = true
		roleLevels[rd.Level] = rd.Name
	}

	return nil
}
