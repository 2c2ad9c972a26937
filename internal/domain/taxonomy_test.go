package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomyOrder(t *testing.T) {
	tax := DefaultTaxonomy()
	require.Equal(t, []string{"Licht", "Audio", "Video", "Netzwerk", "Steuerung", "Allgemein"}, tax.Categories())
	require.True(t, tax.HasPair("Licht", "Hardware"))
	require.False(t, tax.HasPair("Licht", "Lautsprecher"))
}

func TestAddCategorySeedsFallbackSub(t *testing.T) {
	tax := DefaultTaxonomy()
	tax = tax.AddCategory("Rigging")
	cat, ok := tax.Category("Rigging")
	require.True(t, ok)
	require.Equal(t, []string{"Sonstiges"}, cat.Subs)
	// appended at the end, existing order untouched
	require.Equal(t, "Rigging", tax.Categories()[len(tax.Categories())-1])
}

func TestAddCategoryExistingIsNoop(t *testing.T) {
	tax := DefaultTaxonomy()
	before := tax.Clone()
	tax = tax.AddCategory("Audio")
	require.Equal(t, before, tax)
}

func TestAddSub(t *testing.T) {
	tax := DefaultTaxonomy()
	tax = tax.AddSub("Audio", "Funkstrecken")
	require.True(t, tax.HasPair("Audio", "Funkstrecken"))

	// duplicate and unknown category are both no-ops
	before := tax.Clone()
	tax = tax.AddSub("Audio", "Funkstrecken")
	tax = tax.AddSub("Gibtesnicht", "Egal")
	require.Equal(t, before, tax)
}

func TestRemoveSubAbsentIsNoop(t *testing.T) {
	tax := DefaultTaxonomy()
	before := tax.Clone()
	require.Equal(t, before, tax.RemoveSub("Audio", "Gibtesnicht"))

	tax = tax.RemoveSub("Audio", "Lautsprecher")
	require.False(t, tax.HasPair("Audio", "Lautsprecher"))
}

func TestRemoveCategory(t *testing.T) {
	tax := DefaultTaxonomy().RemoveCategory("Video")
	require.False(t, tax.HasCategory("Video"))
	require.Len(t, tax.Categories(), 5)
}

func TestMutatorsLeaveReceiverUntouched(t *testing.T) {
	tax := DefaultTaxonomy()
	before := tax.Clone()

	tax.AddCategory("Rigging")
	tax.RemoveCategory("Video")
	tax.AddSub("Audio", "Funkstrecken")
	tax.RemoveSub("Audio", "Lautsprecher")

	require.Equal(t, before, tax)
}

func TestCloneIsIndependent(t *testing.T) {
	tax := DefaultTaxonomy()
	clone := tax.Clone()
	clone[0].Subs[0] = "geändert"
	require.NotEqual(t, tax[0].Subs[0], clone[0].Subs[0])
}
