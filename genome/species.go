package genome

// SpeciesDef is a subset view of (activeLinks, activeWeights) over a
// GenomeDef. Topology is frozen per species: every Individual belonging to
// this species shares the same active link/weight set (spec.md §3, §4.7).
type SpeciesDef struct {
	Genome        *GenomeDef
	ActiveLinks   map[int]bool // linkID -> active
	ActiveWeights map[int]bool // weightID -> active
}

// NewSpeciesDef seeds a species with every link of genome active
// (spec.md §9's open question: this spec uses full-link seeding, not a
// NEAT-style minimal-topology start).
func NewSpeciesDef(g *GenomeDef) *SpeciesDef {
	links := make(map[int]bool, len(g.LinkDefs))
	weights := make(map[int]bool, len(g.WeightDefs))
	for _, l := range g.LinkDefs {
		links[l.ID] = true
	}
	for _, w := range g.WeightDefs {
		weights[w.ID] = true
	}
	return &SpeciesDef{Genome: g, ActiveLinks: links, ActiveWeights: weights}
}

// Clone returns a deep copy of the species' active sets, for structural
// mutation that must not disturb the parent.
func (s *SpeciesDef) Clone() *SpeciesDef {
	links := make(map[int]bool, len(s.ActiveLinks))
	for k, v := range s.ActiveLinks {
		links[k] = v
	}
	weights := make(map[int]bool, len(s.ActiveWeights))
	for k, v := range s.ActiveWeights {
		weights[k] = v
	}
	return &SpeciesDef{Genome: s.Genome, ActiveLinks: links, ActiveWeights: weights}
}

// weightIDForLink finds the (1:1) weight def id for a link, or -1.
func (s *SpeciesDef) weightIDForLink(linkID int) int {
	for _, wd := range s.Genome.WeightDefs {
		if wd.LinkID == linkID {
			return wd.ID
		}
	}
	return -1
}

// RemoveLink deactivates a link and its associated weight.
func (s *SpeciesDef) RemoveLink(linkID int) {
	s.ActiveLinks[linkID] = false
	if wid := s.weightIDForLink(linkID); wid != -1 {
		s.ActiveWeights[wid] = false
	}
}

// AddLink activates a link (and its weight) that already exists in the
// base genome definition but was previously inactive in this species.
func (s *SpeciesDef) AddLink(linkID int) {
	s.ActiveLinks[linkID] = true
	if wid := s.weightIDForLink(linkID); wid != -1 {
		s.ActiveWeights[wid] = true
	}
}

// ActiveInDegree returns the number of currently-active links targeting nodeID.
func (s *SpeciesDef) ActiveInDegree(nodeID int) int {
	count := 0
	for _, l := range s.Genome.LinkDefs {
		if l.TargetNodeIndex == nodeID && s.ActiveLinks[l.ID] {
			count++
		}
	}
	return count
}

// MaxInDegreeForNode returns the configured bound for nodeID's layer, or -1
// if unbounded.
func (s *SpeciesDef) MaxInDegreeForNode(nodeID int) int {
	rowID := s.Genome.NodeDefs[nodeID].RowID
	if md := s.Genome.Layers[rowID].MaxInDegree; md != nil {
		return *md
	}
	return -1
}

// ActiveLinkIDs returns the sorted-by-id list of currently active links.
func (s *SpeciesDef) ActiveLinkIDs() []int {
	ids := make([]int, 0, len(s.ActiveLinks))
	for _, l := range s.Genome.LinkDefs {
		if s.ActiveLinks[l.ID] {
			ids = append(ids, l.ID)
		}
	}
	return ids
}
