// Package export lays a strategy out as a fixed-format document and writes
// it as a Word (DOCX) file.
package export

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/BerylCAtieno/tubearchitect/internal/models"
)

// BlockKind is the closed set of layout elements a Document can hold.
type BlockKind int

const (
	BlockHeading1 BlockKind = iota
	BlockHeading2
	BlockParagraph
	BlockLabel
	BlockMuted
	BlockBulletList
	BlockTable
)

func (k BlockKind) String() string {
	switch k {
	case BlockHeading1:
		return "heading1"
	case BlockHeading2:
		return "heading2"
	case BlockParagraph:
		return "paragraph"
	case BlockLabel:
		return "label"
	case BlockMuted:
		return "muted"
	case BlockBulletList:
		return "bullets"
	case BlockTable:
		return "table"
	default:
		return fmt.Sprintf("BlockKind(%d)", int(k))
	}
}

type Block struct {
	Kind BlockKind
	Text string
	// Items holds bullet list entries.
	Items []string
	// Header and Rows are used by tables only.
	Header []string
	Rows   [][]string
}

type Document struct {
	Title      string
	Author     string
	HeaderText string
	Blocks     []Block
}

const (
	HeaderText = "TubeArchitect AI Strategy"

	ideaTitleColumn     = "Title"
	ideaReasoningColumn = "Strategy & Reasoning"
)

// BuildDocument maps a strategy into the report layout. Every video idea
// becomes one table row, in order.
func BuildDocument(analysis *models.ChannelAnalysis, stats *models.ChannelStats) *Document {
	rows := make([][]string, 0, len(analysis.VideoIdeas))
	for _, idea := range analysis.VideoIdeas {
		rows = append(rows, []string{idea.Title, idea.Reasoning})
	}

	return &Document{
		Title:      "YouTube Strategy Report: " + stats.Name,
		Author:     "TubeArchitect",
		HeaderText: HeaderText,
		Blocks: []Block{
			{Kind: BlockHeading1, Text: "YouTube Strategy Report: " + stats.Name},
			{Kind: BlockMuted, Text: StatsLine(stats)},
			{Kind: BlockHeading2, Text: "1. Executive Summary"},
			{Kind: BlockParagraph, Text: analysis.SuccessfulConcept.Description},
			{Kind: BlockHeading2, Text: "2. Strategic Analysis"},
			{Kind: BlockLabel, Text: "Strengths:"},
			{Kind: BlockBulletList, Items: append([]string(nil), analysis.Strengths...)},
			{Kind: BlockLabel, Text: "Weaknesses:"},
			{Kind: BlockBulletList, Items: append([]string(nil), analysis.Weaknesses...)},
			{Kind: BlockHeading2, Text: "3. Video Ideas Inventory"},
			{Kind: BlockTable, Header: []string{ideaTitleColumn, ideaReasoningColumn}, Rows: rows},
		},
	}
}

// StatsLine renders "Subscribers: 24,500 | Total Views: 1,200,000".
func StatsLine(stats *models.ChannelStats) string {
	return fmt.Sprintf("Subscribers: %s | Total Views: %s",
		humanize.Comma(int64(stats.SubscriberCount)),
		humanize.Comma(int64(stats.TotalViewCount)))
}

// Filename embeds the channel name, with characters that are unsafe in file
// names replaced.
func Filename(stats *models.ChannelStats) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7f:
			return -1
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, strings.TrimSpace(stats.Name))
	if name == "" {
		name = "Channel"
	}
	return "TubeArchitect_" + name + ".docx"
}
