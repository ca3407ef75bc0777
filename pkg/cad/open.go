package cad

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/design"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/eagle"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad"
)

// OpenDesign loads a schematic/board pair, picking the backend from the
// file extensions: .sch/.brd for Eagle, .kicad_sch/.kicad_pcb for KiCad.
func OpenDesign(sch, brd string) (design.Design, error) {
	schExt := strings.ToLower(filepath.Ext(sch))
	brdExt := strings.ToLower(filepath.Ext(brd))
	switch {
	case schExt == ".sch" && brdExt == ".brd":
		d, err := eagle.Open(sch, brd)
		if err != nil {
			return nil, err
		}
		return d, nil
	case schExt == ".kicad_sch" && brdExt == ".kicad_pcb":
		d, err := kicad.Open(sch, brd)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("cad: unsupported design %s, %s: expected .sch and .brd or .kicad_sch and .kicad_pcb", sch, brd)
}
