package intent

// Default policy tables. A Validator copies these at construction and
// grows its own copies through the Add* methods.

var defaultBlockedCommands = []string{
	"system_shutdown",
	"system_restart",
	"file_delete",
	"network_scan",
	"password_access",
	"credential_access",
	"admin_privilege",
	"root_access",
	"registry_modify",
	"firewall_disable",
	"antivirus_disable",
}

var defaultSensitivePatterns = []string{
	`(?:password|passwd|pwd|credential|secret|token|key|auth)`,
	`(?:delete|remove|erase|wipe|destroy).*(?:file|folder|directory|disk|drive)`,
	`(?:shutdown|restart|reboot|halt).*(?:system|computer|machine)`,
	`(?:install|execute|run).*(?:\.exe|\.bat|\.cmd|\.sh|\.ps1)`,
	`(?:access|read|open).*(?:private|personal|confidential|sensitive)`,
	`(?:hack|crack|break|bypass|exploit)`,
	`(?:admin|administrator|root|sudo|privilege)`,
	`(?:network|wifi|internet).*(?:scan|probe|attack)`,
}

var defaultSafeTools = []string{
	"web_search",
	"weather",
	"time",
	"calculator",
	"timer",
	"joke_generator",
	"fact_lookup",
	"unit_converter",
	"text_analyzer",
}

var defaultRestrictedTools = map[string]string{
	"file_browser": "Read-only file browsing in safe directories only",
	"web_browser":  "Limited to whitelisted domains",
	"email_client": "Send-only, no credential access",
	"calendar":     "View and create events only",
	"note_taking":  "Local notes only, no cloud sync",
}

var suspiciousKeywords = []string{
	"hack", "crack", "exploit", "malware", "virus",
	"illegal", "piracy", "drugs", "weapons",
}

var dangerousPaths = []string{
	"/etc/", "/sys/", "/proc/", "/root/",
	`C:\Windows\System32\`, `C:\Program Files\`,
	".ssh/", ".aws/", ".env", "password", "credential",
}

const maxSearchQueryLength = 200
