package narrative

// zoneNames pins the en-US generic display name for the zones the directory serves.
// Pinning keeps descriptions byte-identical across hosts regardless of the local ICU data.
var zoneNames = map[string]string{
	// North America
	"America/New_York":               "Eastern Time",
	"America/Detroit":                "Eastern Time",
	"America/Indiana/Indianapolis":   "Eastern Time",
	"America/Kentucky/Louisville":    "Eastern Time",
	"America/Toronto":                "Eastern Time",
	"America/Nassau":                 "Eastern Time",
	"America/Chicago":                "Central Time",
	"America/Indiana/Knox":           "Central Time",
	"America/Menominee":              "Central Time",
	"America/North_Dakota/Center":    "Central Time",
	"America/Winnipeg":               "Central Time",
	"America/Mexico_City":            "Central Time",
	"America/Denver":                 "Mountain Time",
	"America/Boise":                  "Mountain Time",
	"America/Edmonton":               "Mountain Time",
	"America/Phoenix":                "Mountain Time",
	"America/Los_Angeles":            "Pacific Time",
	"America/Vancouver":              "Pacific Time",
	"America/Tijuana":                "Pacific Time",
	"America/Anchorage":              "Alaska Time",
	"America/Juneau":                 "Alaska Time",
	"Pacific/Honolulu":               "Hawaii-Aleutian Time",
	"America/Adak":                   "Hawaii-Aleutian Time",
	"America/Halifax":                "Atlantic Time",
	"America/Puerto_Rico":            "Atlantic Time",
	"America/St_Johns":               "Newfoundland Time",
	"America/Regina":                 "Central Time",
	"America/Argentina/Buenos_Aires": "Argentina Standard Time",
	"America/Sao_Paulo":              "Brasilia Time",
	"America/Bogota":                 "Colombia Time",
	"America/Lima":                   "Peru Time",
	"America/Santiago":               "Chile Time",

	// Europe and Africa
	"Europe/London":       "United Kingdom Time",
	"Europe/Dublin":       "Ireland Time",
	"Europe/Lisbon":       "Western European Time",
	"Atlantic/Reykjavik":  "Greenwich Mean Time",
	"Europe/Paris":        "Central European Time",
	"Europe/Berlin":       "Central European Time",
	"Europe/Madrid":       "Central European Time",
	"Europe/Rome":         "Central European Time",
	"Europe/Amsterdam":    "Central European Time",
	"Europe/Brussels":     "Central European Time",
	"Europe/Stockholm":    "Central European Time",
	"Europe/Oslo":         "Central European Time",
	"Europe/Copenhagen":   "Central European Time",
	"Europe/Warsaw":       "Central European Time",
	"Europe/Vienna":       "Central European Time",
	"Europe/Zurich":       "Central European Time",
	"Europe/Athens":       "Eastern European Time",
	"Europe/Helsinki":     "Eastern European Time",
	"Europe/Kiev":         "Eastern European Time",
	"Europe/Kyiv":         "Eastern European Time",
	"Europe/Bucharest":    "Eastern European Time",
	"Europe/Moscow":       "Moscow Time",
	"Africa/Johannesburg": "South Africa Standard Time",
	"Africa/Lagos":        "West Africa Time",
	"Africa/Nairobi":      "East Africa Time",
	"Africa/Cairo":        "Eastern European Time",

	// Asia and Oceania
	"Asia/Jerusalem":      "Israel Time",
	"Asia/Dubai":          "Gulf Standard Time",
	"Asia/Kolkata":        "India Standard Time",
	"Asia/Tehran":         "Iran Time",
	"Asia/Bangkok":        "Indochina Time",
	"Asia/Singapore":      "Singapore Standard Time",
	"Asia/Manila":         "Philippine Time",
	"Asia/Hong_Kong":      "Hong Kong Time",
	"Asia/Shanghai":       "China Time",
	"Asia/Tokyo":          "Japan Time",
	"Asia/Seoul":          "Korean Time",
	"Australia/Perth":     "Western Australia Time",
	"Australia/Adelaide":  "Central Australia Time",
	"Australia/Darwin":    "Central Australia Time",
	"Australia/Brisbane":  "Eastern Australia Time",
	"Australia/Sydney":    "Eastern Australia Time",
	"Australia/Melbourne": "Eastern Australia Time",
	"Australia/Hobart":    "Eastern Australia Time",
	"Pacific/Auckland":    "New Zealand Time",

	"UTC":     "Coordinated Universal Time",
	"Etc/UTC": "Coordinated Universal Time",
	"GMT":     "Greenwich Mean Time",
}

// ZoneDisplayName returns the pinned en-US name for an IANA zone identifier.
func ZoneDisplayName(zone string) (string, bool) {
	name, ok := zoneNames[zone]
	return name, ok
}
