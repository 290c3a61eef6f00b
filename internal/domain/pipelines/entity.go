package pipelines

import (
	"time"

	"github.com/bryanwahyu/pipeline-integrity/internal/domain/segments"
)

// DefaultStatus is assigned when a pipeline is created without one.
const DefaultStatus = "Active"

// Pipeline is a named physical pipeline asset grouping segments.
type Pipeline struct {
	ID        string    `json:"pipelineId"`
	Name      string    `json:"name"`
	Operator  *string   `json:"operator"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Listing is the pipeline list row.
type Listing struct {
	Pipeline
	SegmentCount int `json:"segmentCount"`
}

// Detail is one pipeline with its segments ordered by name.
type Detail struct {
	Pipeline
	Segments []segments.Scored `json:"segments"`
}
