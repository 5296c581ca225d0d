package roadauth

import (
	"github.com/roadinfra/roadauth/internal/metrics"
	"github.com/roadinfra/roadauth/permission"
)

// currentMask builds the effective permission mask for the signed-in
// user, or zero when nobody is signed in.
func (c *Client) currentMask() (permission.Mask64, *User) {
	u := c.sessions.Get().User
	if u == nil {
		return 0, nil
	}
	return permission.MaskOf(u.EffectivePermissions()...), u
}

// HasPermission reports whether the signed-in user holds p. Always
// false when signed out.
func (c *Client) HasPermission(p permission.Permission) bool {
	mask, u := c.currentMask()
	return u != nil && mask.HasPermission(p)
}

// HasAnyPermission reports whether the user holds at least one of
// perms. An empty perms list is never satisfied.
func (c *Client) HasAnyPermission(perms ...permission.Permission) bool {
	mask, u := c.currentMask()
	if u == nil {
		return false
	}
	for _, p := range perms {
		if mask.HasPermission(p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the user holds every permission in
// perms.
func (c *Client) HasAllPermissions(perms ...permission.Permission) bool {
	mask, u := c.currentMask()
	if u == nil {
		return false
	}
	for _, p := range perms {
		if !mask.HasPermission(p) {
			return false
		}
	}
	return true
}

// HasRole reports whether the signed-in user carries exactly r.
func (c *Client) HasRole(r permission.Role) bool {
	u := c.sessions.Get().User
	return u != nil && u.Role == r
}

// HasAnyRole reports whether the user carries one of the given roles.
func (c *Client) HasAnyRole(roles ...permission.Role) bool {
	u := c.sessions.Get().User
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func (c *Client) IsAdmin() bool    { return c.HasRole(permission.RoleAdmin) }
func (c *Client) IsEngineer() bool { return c.HasRole(permission.RoleEngineer) }
func (c *Client) IsOperator() bool { return c.HasRole(permission.RoleOperator) }
func (c *Client) IsViewer() bool   { return c.HasRole(permission.RoleViewer) }

// Capability shorthands used by the dashboard surfaces.

func (c *Client) CanManageUsers() bool {
	return c.HasPermission(permission.UserManage)
}

func (c *Client) CanConfigureSensors() bool {
	return c.HasPermission(permission.SensorConfigure)
}

func (c *Client) CanManageAlerts() bool {
	return c.HasAnyPermission(permission.AlertAcknowledge, permission.AlertResolve)
}

func (c *Client) CanExportData() bool {
	return c.HasPermission(permission.AnalyticsExport)
}

// Authorize gates a named surface behind a permission set. A denial is
// recorded (counter plus event) once per key until either the key is
// authorized again or [Client.ResetDenials] runs, so a surface that
// re-evaluates on every render does not spam the denial stream.
func (c *Client) Authorize(key string, perms ...permission.Permission) bool {
	if c.HasAllPermissions(perms...) {
		c.deniedMu.Lock()
		delete(c.denied, key)
		c.deniedMu.Unlock()
		return true
	}

	c.DenyOnce(key)
	return false
}

// DenyOnce records a denial for key, notifying (counter plus event) at
// most once per distinct key until the key is authorized again or
// [Client.ResetDenials] runs.
func (c *Client) DenyOnce(key string) {
	c.deniedMu.Lock()
	_, seen := c.denied[key]
	if !seen {
		c.denied[key] = struct{}{}
	}
	c.deniedMu.Unlock()

	if !seen {
		c.metrics.Inc(metrics.MetricPermissionDenied)
		c.emitEvent(EventTypePermissionDenied, userID(c.sessions.Get().User), false, nil,
			map[string]string{"key": key})
	}
}

// ResetDenials forgets every recorded denial, re-arming the
// once-per-key notification.
func (c *Client) ResetDenials() {
	c.deniedMu.Lock()
	c.denied = make(map[string]struct{})
	c.deniedMu.Unlock()
}
