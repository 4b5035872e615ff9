package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type cell struct {
	s       string
	width   int
	isSpace bool
}

func textCells(text string) []cell {
	out := make([]cell, 0, len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' {
			r = ' '
		}
		out = append(out, cell{s: string(r), width: runewidth.RuneWidth(r), isSpace: r == ' '})
	}
	return out
}

func renderCells(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.s)
	}
	return b.String()
}

// wrapText breaks text at spaces so no line exceeds width display columns.
// Words longer than width are split.
func wrapText(text string, width int) string {
	cells := textCells(text)
	if width <= 0 {
		return renderCells(cells)
	}
	var out strings.Builder
	line := make([]cell, 0, width)
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(cells); {
		c := cells[i]
		if lineWidth+c.width > width && len(line) > 0 {
			if c.isSpace {
				out.WriteString(renderCells(line))
				out.WriteRune('\n')
				line, lineWidth, lastSpace = line[:0], 0, -1
				i++
				continue
			}
			if lastSpace >= 0 {
				out.WriteString(renderCells(line[:lastSpace]))
				out.WriteRune('\n')
				line = append([]cell{}, line[lastSpace+1:]...)
				lineWidth = cellsWidth(line)
				lastSpace = lastSpaceIndex(line)
			} else {
				out.WriteString(renderCells(line))
				out.WriteRune('\n')
				line, lineWidth, lastSpace = line[:0], 0, -1
			}
			continue
		}
		if c.isSpace && len(line) == 0 {
			i++
			continue
		}
		line = append(line, c)
		lineWidth += c.width
		if c.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	out.WriteString(strings.TrimRight(renderCells(line), " "))
	return out.String()
}

func cellsWidth(line []cell) int {
	total := 0
	for _, c := range line {
		total += c.width
	}
	return total
}

func lastSpaceIndex(line []cell) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
