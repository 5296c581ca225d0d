package permission

import "testing"

func TestTableTotality(t *testing.T) {
	for _, r := range Roles() {
		perms := PermissionsForRole(r)
		if len(perms) == 0 {
			t.Fatalf("role %s has empty permission set", r)
		}
		for _, p := range perms {
			if !p.IsValid() {
				t.Fatalf("role %s carries invalid permission %q", r, p)
			}
		}
	}
	if got := PermissionsForRole(Role("GHOST")); got != nil {
		t.Fatalf("invalid role returned permissions: %v", got)
	}
}

func TestAdminHasEverything(t *testing.T) {
	if got := len(PermissionsForRole(RoleAdmin)); got != Count() {
		t.Fatalf("admin set has %d permissions, want %d", got, Count())
	}
	for _, p := range All() {
		if !RoleHasPermission(RoleAdmin, p) {
			t.Fatalf("admin missing %s", p)
		}
	}
}

func TestViewerTable(t *testing.T) {
	if !RoleHasAllPermissions(RoleViewer, []Permission{SensorRead, AssetRead}) {
		t.Fatal("viewer should read sensors and assets")
	}
	if RoleHasAllPermissions(RoleViewer, []Permission{SensorWrite}) {
		t.Fatal("viewer must not write sensors")
	}
	if RoleHasAnyPermission(RoleViewer, []Permission{SensorWrite, UserManage, SystemAdmin}) {
		t.Fatal("viewer holds a write/admin permission")
	}
}

func TestEngineerOperatorSplit(t *testing.T) {
	// Engineers configure, operators work alerts; only operators were granted
	// user read-out on the server mapping.
	if !RoleHasPermission(RoleEngineer, MonitoringConfigureThresholds) {
		t.Fatal("engineer missing threshold configuration")
	}
	if RoleHasPermission(RoleEngineer, SensorDelete) {
		t.Fatal("engineer must not delete sensors")
	}
	if RoleHasPermission(RoleEngineer, UserRead) {
		t.Fatal("engineer must not read users")
	}
	if !RoleHasPermission(RoleOperator, UserRead) {
		t.Fatal("operator missing user read")
	}
	if RoleHasPermission(RoleOperator, SensorWrite) {
		t.Fatal("operator must not write sensors")
	}
}

func TestVacuousAnyIsFalse(t *testing.T) {
	for _, r := range Roles() {
		if RoleHasAnyPermission(r, nil) {
			t.Fatalf("empty any-check returned true for %s", r)
		}
		if RoleHasAnyPermission(r, []Permission{}) {
			t.Fatalf("empty any-check returned true for %s", r)
		}
	}
}

func TestRolesWithPermission(t *testing.T) {
	got := RolesWithPermission(SensorRead)
	if len(got) != 4 {
		t.Fatalf("every role reads sensors, got %v", got)
	}
	got = RolesWithPermission(UserManage)
	if len(got) != 1 || got[0] != RoleAdmin {
		t.Fatalf("only admin manages users, got %v", got)
	}
}
