package constants

// Capability names the executing model may claim to use.
const (
	ToolCreateFile = "create_file"
	ToolReadFile   = "read_file"
	ToolListFiles  = "list_files"
	ToolCalculate  = "calculate"
	ToolLogAction  = "log_action"
)

// AllTools returns every known capability name.
func AllTools() []string {
	return []string{ToolCreateFile, ToolReadFile, ToolListFiles, ToolCalculate, ToolLogAction}
}

// IsKnownTool reports whether name is a known capability.
func IsKnownTool(name string) bool {
	for _, t := range AllTools() {
		if t == name {
			return true
		}
	}
	return false
}
