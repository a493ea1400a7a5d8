package output

import (
	"encoding/json"

	"gitlab.com/shar-workflow/iflowscan/model"
)

// Json contains the output methods for returning json CLI responses
type Json struct {
}

// OutputArtifact returns a CLI response
func (c *Json) OutputArtifact(res *model.ArtifactResult) {
	c.outJson(NewArtifactOutput(res))
}

// OutputBatch returns a CLI response
func (c *Json) OutputBatch(res *model.BatchResult, reportFile string) {
	c.outJson(NewBatchOutput(res, reportFile))
}

// OutputResponse returns a CLI response
func (c *Json) OutputResponse(res *model.ExtractResponse) {
	c.outJson(res)
}

func (c *Json) outJson(js interface{}) {
	op, err := json.Marshal(&js)
	if err != nil {
		panic(err)
	}
	if _, err := Stream.Write(append(op, '\n')); err != nil {
		panic(err)
	}
}
