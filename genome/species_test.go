package genome

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSpeciesDefSeedsEveryLinkActive(t *testing.T) {
	g := buildSimpleGenome(t)
	s := NewSpeciesDef(g)

	require.Len(t, s.ActiveLinks, len(g.LinkDefs))
	for _, l := range g.LinkDefs {
		require.True(t, s.ActiveLinks[l.ID])
	}
	require.Equal(t, 6, len(s.ActiveLinkIDs()))
}

func TestCloneIsIndependentOfParent(t *testing.T) {
	g := buildSimpleGenome(t)
	s := NewSpeciesDef(g)
	clone := s.Clone()

	linkID := g.LinkDefs[0].ID
	clone.RemoveLink(linkID)

	require.False(t, clone.ActiveLinks[linkID])
	require.True(t, s.ActiveLinks[linkID])
}

func TestRemoveLinkDeactivatesItsWeight(t *testing.T) {
	g := buildSimpleGenome(t)
	s := NewSpeciesDef(g)
	linkID := g.LinkDefs[0].ID
	wid := s.weightIDForLink(linkID)
	require.NotEqual(t, -1, wid)

	s.RemoveLink(linkID)

	require.False(t, s.ActiveLinks[linkID])
	require.False(t, s.ActiveWeights[wid])
}

func TestAddLinkReactivatesLinkAndWeight(t *testing.T) {
	g := buildSimpleGenome(t)
	s := NewSpeciesDef(g)
	linkID := g.LinkDefs[0].ID
	wid := s.weightIDForLink(linkID)
	s.RemoveLink(linkID)

	s.AddLink(linkID)

	require.True(t, s.ActiveLinks[linkID])
	require.True(t, s.ActiveWeights[wid])
}

func TestActiveInDegreeCountsOnlyActiveLinks(t *testing.T) {
	g := buildSimpleGenome(t)
	s := NewSpeciesDef(g)
	// Hidden node 2 receives one link from each of the 2 inputs.
	hiddenNode := 2
	require.Equal(t, 2, s.ActiveInDegree(hiddenNode))

	for _, l := range g.LinkDefs {
		if l.TargetNodeIndex == hiddenNode {
			s.RemoveLink(l.ID)
			break
		}
	}
	require.Equal(t, 1, s.ActiveInDegree(hiddenNode))
}

func TestMaxInDegreeForNodeReportsUnboundedByDefault(t *testing.T) {
	g := buildSimpleGenome(t)
	s := NewSpeciesDef(g)
	require.Equal(t, -1, s.MaxInDegreeForNode(2))

	g.SetMaxInDegree(1, 1)
	require.Equal(t, 1, s.MaxInDegreeForNode(2))
}

func TestActiveLinkIDsExcludesRemovedLinks(t *testing.T) {
	g := buildSimpleGenome(t)
	s := NewSpeciesDef(g)
	linkID := g.LinkDefs[0].ID
	s.RemoveLink(linkID)

	ids := s.ActiveLinkIDs()
	require.Len(t, ids, 5)
	for _, id := range ids {
		require.NotEqual(t, linkID, id)
	}
}
