package model

// HostEntry is one static ip -> hostname mapping.
// ID is the position of the line among non-blank lines at read time; every add or delete renumbers.
type HostEntry struct {
	ID       int    `json:"id"`
	IP       string `json:"ip"`
	Hostname string `json:"hostname"`
}

// Line renders the entry the way it is written to the hosts file.
func (h HostEntry) Line() string {
	return FormatLine(h.IP, h.Hostname)
}

func FormatLine(ip, hostname string) string {
	return ip + " " + hostname
}
