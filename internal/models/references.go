package models

import "github.com/Vonter/bmrcl-station-app/internal/network"

// ReferencesModel carries the lines referenced by an entry or list.
type ReferencesModel struct {
	Lines []LineReference `json:"lines"`
}

// LineReference is the display data of a line, without its stations.
type LineReference struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Color            string `json:"color"`
	BorderColor      string `json:"borderColor"`
	TransferElevator string `json:"transferElevator"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{Lines: []LineReference{}}
}

func NewLineReference(line *network.Line) LineReference {
	return LineReference{
		ID:               string(line.ID),
		Name:             line.Name,
		Color:            line.Color,
		BorderColor:      line.BorderColor,
		TransferElevator: line.TransferElevator,
	}
}

// NewLineReferences references each distinct line once, in the given order.
func NewLineReferences(lines ...*network.Line) ReferencesModel {
	refs := NewEmptyReferences()
	seen := make(map[network.LineID]bool, len(lines))
	for _, l := range lines {
		if l == nil || seen[l.ID] {
			continue
		}
		seen[l.ID] = true
		refs.Lines = append(refs.Lines, NewLineReference(l))
	}
	return refs
}
