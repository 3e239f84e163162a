package cnf

import (
	"fmt"
	"sort"
)

// Decoder reverses a CNF's external renumbering back to internal
// registry indices, so a SAT model can be resolved into a first-order
// variable to vertex assignment.
type Decoder struct {
	extToInt map[int]int
	src      DecodeSource
}

func newDecoder(extToInt map[int]int, src DecodeSource) *Decoder {
	return &Decoder{extToInt: extToInt, src: src}
}

// DecodeAssignment interprets a SAT model (signed external variable
// indices) and returns a map from first-order variable symbol index
// to the vertex it is assigned. Non-decodable and unrecognized
// literals are ignored; a variable assigned both true and false
// anywhere in the model is a conflict and reported as an error.
func (d *Decoder) DecodeAssignment(model []int) (map[int]int, error) {
	if d.src == nil {
		return nil, fmt.Errorf("cnf: decode: no graph structure available (formula reduced to unsat)")
	}

	seenTrue := make(map[int]bool)
	seenFalse := make(map[int]bool)
	truePositions := make(map[int]map[int]bool)

	for _, lit := range model {
		ext := lit
		neg := false
		if ext < 0 {
			ext = -ext
			neg = true
		}
		internal, ok := d.extToInt[ext]
		if !ok || !d.src.IsDecodableVar(internal) {
			continue
		}
		if neg {
			seenFalse[ext] = true
		} else {
			seenTrue[ext] = true
		}
		if seenTrue[ext] && seenFalse[ext] {
			return nil, fmt.Errorf("cnf: conflicting assignment for external variable %d", ext)
		}
		symbol, pos, ok := d.src.VariablePositionPair(internal)
		if !ok {
			continue
		}
		if !neg {
			if truePositions[symbol] == nil {
				truePositions[symbol] = make(map[int]bool)
			}
			truePositions[symbol][pos+1] = true
		} else if truePositions[symbol] == nil {
			truePositions[symbol] = make(map[int]bool)
		}
	}

	result := make(map[int]int, len(truePositions))
	for symbol, set := range truePositions {
		positions := make([]int, 0, len(set))
		for p := range set {
			positions = append(positions, p)
		}
		sort.Ints(positions)
		vertex, err := d.src.ResolveVertex(positions)
		if err != nil {
			return nil, fmt.Errorf("cnf: decoding variable %d: %w", symbol, err)
		}
		result[symbol] = vertex
	}
	return result, nil
}
