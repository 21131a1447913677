package domain

// Capability is one tool the executing model may claim to use.
// The engine never invokes capabilities itself.
type Capability struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToolContext is the opaque set of capabilities handed to the execution step.
type ToolContext struct {
	Capabilities []Capability `json:"capabilities"`
}

// Names returns the capability names in order.
func (c ToolContext) Names() []string {
	names := make([]string, 0, len(c.Capabilities))
	for _, capability := range c.Capabilities {
		names = append(names, capability.Name)
	}
	return names
}

// Has reports whether a capability with the given name is present.
func (c ToolContext) Has(name string) bool {
	for _, capability := range c.Capabilities {
		if capability.Name == name {
			return true
		}
	}
	return false
}
