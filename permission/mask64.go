package permission

// Mask64 is a 64-bit permission membership mask. The closed permission set
// fits in a single word; bit positions come from [Permission.Bit].
type Mask64 uint64

// Has reports whether the given bit is set. Out-of-range bits are never set.
func (m Mask64) Has(bit int) bool {
	if bit < 0 || bit >= 64 {
		return false
	}
	return m&(1<<bit) != 0
}

// Set sets the given bit. Out-of-range bits are ignored.
func (m *Mask64) Set(bit int) {
	if bit < 0 || bit >= 64 {
		return
	}
	*m |= 1 << bit
}

// Clear clears the given bit. Out-of-range bits are ignored.
func (m *Mask64) Clear(bit int) {
	if bit < 0 || bit >= 64 {
		return
	}
	*m &^= 1 << bit
}

// Raw returns the underlying word.
func (m Mask64) Raw() uint64 {
	return uint64(m)
}

// HasPermission reports whether p is a member of the mask.
func (m Mask64) HasPermission(p Permission) bool {
	return m.Has(p.Bit())
}

// Permissions expands the mask back into its permission list, in bit order.
func (m Mask64) Permissions() []Permission {
	var out []Permission
	for _, p := range all {
		if m.Has(p.Bit()) {
			out = append(out, p)
		}
	}
	return out
}

// MaskOf builds a mask from the given permissions. Invalid permissions are
// skipped.
func MaskOf(perms ...Permission) Mask64 {
	var m Mask64
	for _, p := range perms {
		m.Set(p.Bit())
	}
	return m
}
