package t2048

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)
	hudHeight  = 3

	boardW = engine.BoardSize*cellWidth + 1  // +1 for right border
	boardH = engine.BoardSize*cellHeight + 1 // +1 for bottom border
)

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX)
	g.renderBoard(dst, boardX, boardY)
	dst.DrawTextCentered(boardY+boardH+1, g.Controls())
	g.renderOverlays(dst, boardX, boardY)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
}

// renderHUD draws the score line and mode info.
func (g *Game) renderHUD(dst *core.Screen, boardX int) {
	title := "2048"
	dst.DrawTextColor(boardX+(boardW-len(title))/2, 0, title, core.ColorBrightYellow)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", g.score()))

	var info string
	if g.mode == ModeEndless {
		info = fmt.Sprintf("Max: %d", g.session.Board().MaxTile())
	} else {
		info = fmt.Sprintf("Target: %d", g.cfg.Engine.Target)
	}
	dst.DrawText(max(boardX, boardX+boardW-len(info)), 1, info)

	status := fmt.Sprintf("%s  moves %d  undo %d", g.modeLabel(), g.moves, g.session.HistoryLen()-1)
	dst.DrawTextColor(boardX+(boardW-len(status))/2, 2, status, core.ColorGray)
}

func (g *Game) modeLabel() string {
	if g.mode == ModeEndless {
		return "Endless"
	}
	return "Classic"
}

// renderBoard draws the 4x4 grid with tiles.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	const n = engine.BoardSize

	for y := range n + 1 {
		for x := range n + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == n:
				corner = '┐'
			case y == n && x == 0:
				corner = '└'
			case y == n && x == n:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == n:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == n:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.Set(px, py, corner)

			if x < n {
				for i := 1; i < cellWidth; i++ {
					dst.Set(px+i, py, '─')
				}
			}
			if y < n {
				for i := 1; i < cellHeight; i++ {
					dst.Set(px, py+i, '│')
				}
			}
		}
	}

	board := g.session.Board()
	for y := range n {
		for x := range n {
			val := board[y][x]
			if val == 0 {
				continue
			}

			cellX := boardX + x*cellWidth + 1
			cellY := boardY + y*cellHeight + 1

			valStr := strconv.Itoa(val)
			padLeft := max(0, (cellWidth-1-len(valStr))/2)

			color := tileColor(val)
			if g.lastSpawn != nil && g.lastSpawn.Row == y && g.lastSpawn.Col == x {
				color = core.ColorBrightWhite
			}
			dst.DrawTextColor(cellX+padLeft, cellY, valStr, color)
		}
	}
}

// tileColor picks a color per tile value, cycling past 2048.
func tileColor(v int) core.Color {
	switch v {
	case 2:
		return core.ColorWhite
	case 4:
		return core.ColorGray
	case 8:
		return core.ColorYellow
	case 16:
		return core.ColorOrange
	case 32:
		return core.ColorRed
	case 64:
		return core.ColorBrightRed
	case 128:
		return core.ColorMagenta
	case 256:
		return core.ColorCyan
	case 512:
		return core.ColorGreen
	case 1024:
		return core.ColorBlue
	case 2048:
		return core.ColorBrightYellow
	default:
		return core.ColorBrightRed
	}
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY int) {
	centerX := boardX + boardW/2
	centerY := boardY + boardH/2

	switch {
	case g.paused:
		drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
	case g.mode == ModeClassic && g.won:
		drawOverlay(dst, centerX, centerY, "YOU WIN!", fmt.Sprintf("Score: %d", g.score()), "Press R to restart")
	case g.gameOver:
		maxStr := fmt.Sprintf("Max tile: %d", g.session.Board().MaxTile())
		drawOverlay(dst, centerX, centerY, "GAME OVER", maxStr, "U to undo, R to restart")
	}
}

// drawOverlay draws a centered text box.
func drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.NewRect(centerX-(maxLen+4)/2, centerY-(len(lines)+2)/2, maxLen+4, len(lines)+2)

	// Clear area behind overlay
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawText(centerX-len(line)/2, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | U: Undo | P: Pause | R: Restart | Q: Quit"
}
