package inspections

// Conventional inspection methods. Method is free-form; these are the ones the
// scoring rule weights explicitly.
const (
	MethodILI    = "ILI"
	MethodCPCM   = "CPCM"
	MethodVisual = "Visual"
)

// Inspection is one dated observation of a segment.
type Inspection struct {
	ID             string  `json:"inspectionId"`
	SegmentID      string  `json:"segmentId"`
	InspectionDate Date    `json:"inspectionDate"`
	Method         string  `json:"method"`
	MaxDepthPct    int     `json:"maxDepthPct"`
	Notes          *string `json:"notes"`
}

// Latest returns the inspection with the greatest date. When several share that
// date the one appearing first in list wins; callers must not rely on which.
func Latest(list []Inspection) (Inspection, bool) {
	if len(list) == 0 {
		return Inspection{}, false
	}
	best := list[0]
	for _, in := range list[1:] {
		if in.InspectionDate.After(best.InspectionDate) {
			best = in
		}
	}
	return best, true
}
