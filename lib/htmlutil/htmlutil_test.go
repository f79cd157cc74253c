package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestDirectText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tr><td class="col-class">
			Mage
			<span class="tip">(new)</span>
		</td></tr></table>`,
	))
	require.NoError(t, err)

	cell := doc.Find("td.col-class")
	require.Equal(t, 1, len(cell.Nodes))
	require.Equal(t, "Mage", CleanText(DirectText(cell.Nodes[0])))
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "Twisting Nether", CleanText("  Twisting \n\t Nether "))
	require.Equal(t, "", CleanText(" \n "))
}
