package domain

// Address is a shared street address referenced by people and locations.
type Address struct {
	ID           int64
	FriendlyName string
	Address1     string
	Address2     string
	City         string
	State        string
	ZipCode      string
	Country      string
}

// OneLine renders the address as a single display string. Empty segments
// are skipped so a partially filled address never produces ", , NC".
func (a *Address) OneLine() string {
	if a == nil {
		return ""
	}
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Address1, a.Address2, a.City, a.State, a.ZipCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
