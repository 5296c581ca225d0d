package permission

// Permission is a fine-grained capability tag gating a specific dashboard
// action or view. The set is closed; values outside it are invalid.
type Permission string

const (
	// Sensor permissions.
	SensorRead      Permission = "SENSOR_READ"
	SensorWrite     Permission = "SENSOR_WRITE"
	SensorDelete    Permission = "SENSOR_DELETE"
	SensorConfigure Permission = "SENSOR_CONFIGURE"

	// Asset permissions.
	AssetRead           Permission = "ASSET_READ"
	AssetWrite          Permission = "ASSET_WRITE"
	AssetDelete         Permission = "ASSET_DELETE"
	AssetProgressUpdate Permission = "ASSET_PROGRESS_UPDATE"

	// Monitoring permissions.
	MonitoringRead                Permission = "MONITORING_READ"
	MonitoringConfigureThresholds Permission = "MONITORING_CONFIGURE_THRESHOLDS"

	// Alert permissions.
	AlertRead        Permission = "ALERT_READ"
	AlertAcknowledge Permission = "ALERT_ACKNOWLEDGE"
	AlertAssign      Permission = "ALERT_ASSIGN"
	AlertResolve     Permission = "ALERT_RESOLVE"
	AlertRuleManage  Permission = "ALERT_RULE_MANAGE"

	// Analytics permissions.
	AnalyticsRead    Permission = "ANALYTICS_READ"
	AnalyticsExport  Permission = "ANALYTICS_EXPORT"
	AnalyticsRefresh Permission = "ANALYTICS_REFRESH"

	// Inspection permissions.
	InspectionRead  Permission = "INSPECTION_READ"
	InspectionWrite Permission = "INSPECTION_WRITE"

	// User management and system administration.
	UserRead    Permission = "USER_READ"
	UserManage  Permission = "USER_MANAGE"
	SystemAdmin Permission = "SYSTEM_ADMIN"
)

// all lists every permission in bit order. Appending is allowed; reordering
// is not, because Bit positions feed persisted masks.
var all = []Permission{
	SensorRead,
	SensorWrite,
	SensorDelete,
	SensorConfigure,
	AssetRead,
	AssetWrite,
	AssetDelete,
	AssetProgressUpdate,
	MonitoringRead,
	MonitoringConfigureThresholds,
	AlertRead,
	AlertAcknowledge,
	AlertAssign,
	AlertResolve,
	AlertRuleManage,
	AnalyticsRead,
	AnalyticsExport,
	AnalyticsRefresh,
	InspectionRead,
	InspectionWrite,
	UserRead,
	UserManage,
	SystemAdmin,
}

var bits = func() map[Permission]int {
	m := make(map[Permission]int, len(all))
	for i, p := range all {
		m[p] = i
	}
	return m
}()

// All returns every permission in stable bit order. The returned slice is a
// copy and safe to mutate.
func All() []Permission {
	out := make([]Permission, len(all))
	copy(out, all)
	return out
}

// Count returns the number of permissions in the closed set.
func Count() int {
	return len(all)
}

// IsValid reports whether p is a member of the closed permission set.
func (p Permission) IsValid() bool {
	_, ok := bits[p]
	return ok
}

// Bit returns the stable bit index for p, or -1 for values outside the
// closed set.
func (p Permission) Bit() int {
	bit, ok := bits[p]
	if !ok {
		return -1
	}
	return bit
}

// String returns the wire name of the permission.
func (p Permission) String() string {
	return string(p)
}

// Label returns the human-readable description shown on the admin screens.
func (p Permission) Label() string {
	switch p {
	case SensorRead:
		return "Read sensor data"
	case SensorWrite:
		return "Create/update sensors"
	case SensorDelete:
		return "Delete sensors"
	case SensorConfigure:
		return "Configure sensor settings"
	case AssetRead:
		return "Read asset data"
	case AssetWrite:
		return "Create/update assets"
	case AssetDelete:
		return "Delete assets"
	case AssetProgressUpdate:
		return "Update asset progress"
	case MonitoringRead:
		return "Read monitoring data"
	case MonitoringConfigureThresholds:
		return "Configure thresholds"
	case AlertRead:
		return "Read alerts"
	case AlertAcknowledge:
		return "Acknowledge alerts"
	case AlertAssign:
		return "Assign alerts"
	case AlertResolve:
		return "Resolve alerts"
	case AlertRuleManage:
		return "Manage alert rules"
	case AnalyticsRead:
		return "Read analytics"
	case AnalyticsExport:
		return "Export data"
	case AnalyticsRefresh:
		return "Refresh analytics"
	case InspectionRead:
		return "Read inspections"
	case InspectionWrite:
		return "Create/update inspections"
	case UserRead:
		return "Read user data"
	case UserManage:
		return "Manage users"
	case SystemAdmin:
		return "System administration"
	}
	return string(p)
}

// Groups returns the permission groups used for admin-screen display,
// keyed by resource area.
func Groups() map[string][]Permission {
	return map[string][]Permission{
		"sensor":     {SensorRead, SensorWrite, SensorDelete, SensorConfigure},
		"asset":      {AssetRead, AssetWrite, AssetDelete, AssetProgressUpdate},
		"monitoring": {MonitoringRead, MonitoringConfigureThresholds},
		"alert":      {AlertRead, AlertAcknowledge, AlertAssign, AlertResolve, AlertRuleManage},
		"analytics":  {AnalyticsRead, AnalyticsExport, AnalyticsRefresh},
		"inspection": {InspectionRead, InspectionWrite},
		"admin":      {UserRead, UserManage, SystemAdmin},
	}
}
