package permission

// PermissionsForRole returns the static permission set for a role. The
// switch is exhaustive over the closed role set; only invalid roles reach
// the fallthrough.
//
// The table mirrors the server-side mapping:
//
//	ADMIN    -> every permission
//	ENGINEER -> technical access (sensor/asset write, thresholds, alert
//	            lifecycle, analytics, inspections)
//	OPERATOR -> operational access (acknowledge/assign/resolve alerts,
//	            progress updates, inspections, read-only users)
//	VIEWER   -> read-only access to all resources
func PermissionsForRole(r Role) []Permission {
	switch r {
	case RoleAdmin:
		return All()
	case RoleEngineer:
		return []Permission{
			SensorRead, SensorWrite, SensorConfigure,
			AssetRead, AssetWrite, AssetProgressUpdate,
			MonitoringRead, MonitoringConfigureThresholds,
			AlertRead, AlertAcknowledge, AlertAssign, AlertResolve, AlertRuleManage,
			AnalyticsRead, AnalyticsExport, AnalyticsRefresh,
			InspectionRead, InspectionWrite,
		}
	case RoleOperator:
		return []Permission{
			SensorRead,
			AssetRead, AssetProgressUpdate,
			MonitoringRead,
			AlertRead, AlertAcknowledge, AlertAssign, AlertResolve,
			AnalyticsRead,
			InspectionRead, InspectionWrite,
			UserRead,
		}
	case RoleViewer:
		return []Permission{
			SensorRead,
			AssetRead,
			MonitoringRead,
			AlertRead,
			AnalyticsRead,
			InspectionRead,
		}
	}
	return nil
}

var roleMasks = func() map[Role]Mask64 {
	m := make(map[Role]Mask64, len(Roles()))
	for _, r := range Roles() {
		m[r] = MaskOf(PermissionsForRole(r)...)
	}
	return m
}()

// RoleMask returns the precomputed permission mask for a role, or the zero
// mask for invalid roles.
func RoleMask(r Role) Mask64 {
	return roleMasks[r]
}

// RoleHasPermission reports whether the role's static set contains p.
func RoleHasPermission(r Role, p Permission) bool {
	return RoleMask(r).HasPermission(p)
}

// RoleHasAnyPermission reports whether the role's static set contains at
// least one of perms. An empty perms list is vacuously false: no requirement
// was satisfied.
func RoleHasAnyPermission(r Role, perms []Permission) bool {
	mask := RoleMask(r)
	for _, p := range perms {
		if mask.HasPermission(p) {
			return true
		}
	}
	return false
}

// RoleHasAllPermissions reports whether the role's static set contains every
// permission in perms. An empty perms list is vacuously true.
func RoleHasAllPermissions(r Role, perms []Permission) bool {
	mask := RoleMask(r)
	for _, p := range perms {
		if !mask.HasPermission(p) {
			return false
		}
	}
	return true
}

// RolesWithPermission returns every role whose static set contains p, in
// descending privilege breadth.
func RolesWithPermission(p Permission) []Role {
	var out []Role
	for _, r := range Roles() {
		if RoleHasPermission(r, p) {
			out = append(out, r)
		}
	}
	return out
}
