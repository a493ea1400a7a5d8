package extract

import (
	"fmt"

	"gitlab.com/shar-workflow/iflowscan/model"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
)

// CallActivities flattens the call activities of a document into extraction order.
// Each process contributes its direct call activities first, followed by those of each of its
// sub-processes, all in document order.  Processes follow one another in document order.
func CallActivities(defs *model.Definitions) ([]*model.CallActivity, error) {
	if defs == nil || len(defs.Processes) == 0 {
		return nil, fmt.Errorf("navigate call activities: %w", errors2.ErrMalformedDocument)
	}
	var ret []*model.CallActivity
	for _, pr := range defs.Processes {
		ret = append(ret, pr.CallActivities...)
		for _, sp := range pr.SubProcesses {
			ret = append(ret, sp.CallActivities...)
		}
	}
	return ret, nil
}
