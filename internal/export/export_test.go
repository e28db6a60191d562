package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
	"github.com/BerylCAtieno/tubearchitect/internal/models"
	"github.com/BerylCAtieno/tubearchitect/internal/strategy"
)

func demoChannel() *models.ChannelStats {
	ch := models.DemoChannels()[0]
	return &ch
}

func TestBuildDocumentLayout(t *testing.T) {
	analysis := strategy.DemoAnalysis()
	doc := BuildDocument(analysis, demoChannel())

	kinds := make([]BlockKind, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		kinds = append(kinds, b.Kind)
	}
	assert.Equal(t, []BlockKind{
		BlockHeading1, BlockMuted,
		BlockHeading2, BlockParagraph,
		BlockHeading2, BlockLabel, BlockBulletList, BlockLabel, BlockBulletList,
		BlockHeading2, BlockTable,
	}, kinds)

	assert.Equal(t, "YouTube Strategy Report: Future Tech (Sample)", doc.Blocks[0].Text)
	assert.Equal(t, "Subscribers: 24,500 | Total Views: 1,200,000", doc.Blocks[1].Text)
	assert.Equal(t, analysis.SuccessfulConcept.Description, doc.Blocks[3].Text)
	assert.Equal(t, analysis.Strengths, doc.Blocks[6].Items)
	assert.Equal(t, analysis.Weaknesses, doc.Blocks[8].Items)

	tbl := doc.Blocks[10]
	assert.Equal(t, []string{"Title", "Strategy & Reasoning"}, tbl.Header)
	require.Len(t, tbl.Rows, len(analysis.VideoIdeas))
	for i, idea := range analysis.VideoIdeas {
		assert.Equal(t, []string{idea.Title, idea.Reasoning}, tbl.Rows[i])
	}
}

func TestRenderRoundTrip(t *testing.T) {
	analysis := strategy.DemoAnalysis()
	file, err := Render(analysis, demoChannel())
	require.NoError(t, err)

	assert.Equal(t, "TubeArchitect_Future Tech (Sample).docx", file.Name)
	assert.Equal(t, ContentType, file.ContentType)

	rows, err := ReadIdeaTable(file.Data)
	require.NoError(t, err)
	require.Len(t, rows, len(analysis.VideoIdeas)+1)
	assert.Equal(t, []string{"Title", "Strategy & Reasoning"}, rows[0])
	for i, idea := range analysis.VideoIdeas {
		assert.Equal(t, idea.Title, rows[i+1][0])
		assert.Equal(t, idea.Reasoning, rows[i+1][1])
	}

	contents, err := ReadDOCX(file.Data)
	require.NoError(t, err)
	assert.Equal(t, HeaderText, contents.Header)
	assert.Contains(t, contents.Paragraphs, "Subscribers: 24,500 | Total Views: 1,200,000")
	assert.Contains(t, contents.Paragraphs, "1. Executive Summary")
	assert.Contains(t, contents.Paragraphs, "• "+analysis.Strengths[0])
}

func TestRenderPageSetup(t *testing.T) {
	file, err := Render(strategy.DemoAnalysis(), demoChannel())
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
	require.NoError(t, err)

	body, err := readPart(zr, "word/document.xml")
	require.NoError(t, err)
	assert.Contains(t, string(body), `<w:pgSz w:w="12240" w:h="15840"/>`)
	assert.Contains(t, string(body), `<w:headerReference w:type="default" r:id="rIdHeader"/>`)
	assert.Contains(t, string(body), `<w:footerReference w:type="default" r:id="rIdFooter"/>`)

	footer, err := readPart(zr, "word/footer1.xml")
	require.NoError(t, err)
	assert.Contains(t, string(footer), `w:instr=" PAGE "`)
}

func TestRenderEscapesMarkup(t *testing.T) {
	analysis := strategy.DemoAnalysis()
	analysis.VideoIdeas = []models.VideoIdea{{
		Title:     `Tools <2025> & "Tricks"`,
		Reasoning: "Compare A & B",
	}}
	ch := demoChannel()
	ch.Name = "Q&A <Live>"

	file, err := Render(analysis, ch)
	require.NoError(t, err)

	rows, err := ReadIdeaTable(file.Data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{`Tools <2025> & "Tricks"`, "Compare A & B"}, rows[1])

	contents, err := ReadDOCX(file.Data)
	require.NoError(t, err)
	assert.Equal(t, "YouTube Strategy Report: Q&A <Live>", contents.Paragraphs[0])
}

func TestRenderEmptyIdeaList(t *testing.T) {
	analysis := strategy.DemoAnalysis()
	analysis.VideoIdeas = []models.VideoIdea{}

	file, err := Render(analysis, demoChannel())
	require.NoError(t, err)

	rows, err := ReadIdeaTable(file.Data)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRenderRequiresInputs(t *testing.T) {
	_, err := Render(nil, demoChannel())
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	_, err = Render(strategy.DemoAnalysis(), &models.ChannelStats{})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

func TestFilename(t *testing.T) {
	cases := map[string]string{
		"Maker Lab":    "TubeArchitect_Maker Lab.docx",
		"AC/DC: Live?": "TubeArchitect_AC_DC_ Live_.docx",
		"  ":           "TubeArchitect_Channel.docx",
		"قناة التقنية": "TubeArchitect_قناة التقنية.docx",
	}
	for name, want := range cases {
		assert.Equal(t, want, Filename(&models.ChannelStats{Name: name}), name)
	}
}
