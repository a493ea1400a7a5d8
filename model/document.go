package model

// PropertyHeaderTable is the extension property key that carries an encoded header table.
const PropertyHeaderTable = "headerTable"

const (
	// DefaultCallActivityID is reported for a call activity that has no id attribute.
	DefaultCallActivityID = "Unknown_ID"
	// DefaultCallActivityName is reported for a call activity that has no name attribute.
	DefaultCallActivityName = "Unnamed"
)

// Definitions is the root of a parsed integration flow document.
type Definitions struct {
	ID        string
	Processes []*Process
}

// Process is a top level process of an integration flow.
type Process struct {
	ID             string
	Name           string
	CallActivities []*CallActivity
	SubProcesses   []*SubProcess
}

// SubProcess groups call activities nested within a process, such as an exception handler.
type SubProcess struct {
	ID             string
	Name           string
	CallActivities []*CallActivity
}

// CallActivity is a process step that invokes a sub-flow and carries extension properties.
// ID and Name are nil when the source element omits the attribute.
type CallActivity struct {
	ID                *string
	Name              *string
	ExtensionElements []*ExtensionElements
}

// ExtensionElements holds the vendor properties attached to a call activity.
type ExtensionElements struct {
	Properties []*Property
}

// Property is a single key/value extension property.
type Property struct {
	Key   string
	Value string
}

// DisplayID returns the call activity ID, or DefaultCallActivityID if it is absent.
func (c *CallActivity) DisplayID() string {
	if c.ID == nil {
		return DefaultCallActivityID
	}
	return *c.ID
}

// DisplayName returns the call activity name, or DefaultCallActivityName if it is absent.
func (c *CallActivity) DisplayName() string {
	if c.Name == nil {
		return DefaultCallActivityName
	}
	return *c.Name
}

// PropertiesWithKey returns the values of every extension property with the given key, in document order.
// Every extensionElements block is searched, not only the first.
func (c *CallActivity) PropertiesWithKey(key string) []string {
	var ret []string
	for _, ext := range c.ExtensionElements {
		for _, p := range ext.Properties {
			if p.Key == key {
				ret = append(ret, p.Value)
			}
		}
	}
	return ret
}

// Ptr returns a pointer to s.  It is a convenience for building documents by hand.
func Ptr(s string) *string {
	return &s
}
