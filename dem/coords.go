package dem

import "stabsim/errs"

// CoordsOfDetector returns the coordinate tuple recorded for absolute
// detector id d, per spec 4.H. Detector ids in source text are declared
// relative to the running shift_detectors offset, so this flattens first
// (folding every shift into absolute ids, exactly as
// original_source/detector_error_model.cc's own coordinate lookup does)
// and then does a single linear scan; callers needing many lookups should
// flatten once themselves and reuse the result instead of calling this
// repeatedly.
func (m *Model) CoordsOfDetector(d uint64) ([]float64, error) {
	flat := m.Flattened()
	for _, ins := range flat.Instructions {
		if ins.Type != Detector {
			continue
		}
		if flat.Targets(ins)[0].RawID() == d {
			return flat.Args(ins), nil
		}
	}
	return nil, errs.Validation("dem: no coordinates recorded for detector %d", d)
}

// AllDetectorCoords returns coordinates for every declared detector,
// keyed by absolute detector id, in one O(size) pass over the flattened
// model.
func (m *Model) AllDetectorCoords() map[uint64][]float64 {
	flat := m.Flattened()
	out := make(map[uint64][]float64)
	for _, ins := range flat.Instructions {
		if ins.Type != Detector {
			continue
		}
		id := flat.Targets(ins)[0].RawID()
		if _, ok := out[id]; !ok {
			out[id] = flat.Args(ins)
		}
	}
	return out
}
