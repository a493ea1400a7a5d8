package extract

import (
	"regexp"

	"gitlab.com/shar-workflow/iflowscan/model"
)

// placeholderRe matches a value that is entirely a {{key}} reference.
var placeholderRe = regexp.MustCompile(`^\{\{(.+?)\}\}$`)

// Resolve resolves a raw cell value against the parameter map.
// Only a value that is a placeholder in its entirety is looked up, and the looked up value is never rescanned.
// A placeholder with no matching parameter keeps its raw text so that it is visible in reports.
func Resolve(raw string, params model.ParameterMap) model.Resolution {
	m := placeholderRe.FindStringSubmatch(raw)
	if m == nil {
		return model.Resolution{
			IsPlaceholder: false,
			ResolvedValue: raw,
			ResolvedFrom:  model.ResolvedFromDirect,
		}
	}
	if v, ok := params.Lookup(m[1]); ok {
		return model.Resolution{
			IsPlaceholder: true,
			ResolvedValue: v,
			ResolvedFrom:  model.ResolvedFromMap,
		}
	}
	return model.Resolution{
		IsPlaceholder: true,
		ResolvedValue: raw,
		ResolvedFrom:  model.ResolvedFromUnresolved,
	}
}
