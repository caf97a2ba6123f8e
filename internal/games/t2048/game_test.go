package t2048

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// useConfig points the package at a config file holding yaml, appended to
// the embedded defaults, for the duration of the test.
func useConfig(t *testing.T, yaml string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t2048.yaml")
	data := append([]byte{}, config.DefaultYAML()...)
	if yaml != "" {
		data = []byte(yaml)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	SetConfigPath(path)
	t.Cleanup(func() { SetConfigPath("") })
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     42,
	}
}

func newTestGame(t *testing.T, mode Mode) *Game {
	t.Helper()
	useConfig(t, "")
	g := &Game{mode: mode}
	g.clock = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	g.Reset(testRuntime())
	return g
}

func press(a core.Action) core.InputFrame {
	in := core.NewInputFrame()
	in.Set(a)
	return in
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{IDClassic, IDEndless} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, want %q", g.ID(), id)
		}
	}
}

func TestResetSpawnsTwoTiles(t *testing.T) {
	g := newTestGame(t, ModeClassic)

	snap := g.Snapshot()
	tiles := 0
	for _, row := range snap.Board {
		for _, v := range row {
			if v != 0 {
				tiles++
				if v != 2 && v != 4 {
					t.Errorf("initial tile %d, want 2 or 4", v)
				}
			}
		}
	}
	if tiles != 2 {
		t.Errorf("initial board has %d tiles, want 2", tiles)
	}
	if snap.Score != 0 || snap.Moves != 0 || snap.State != StatePlaying {
		t.Errorf("fresh snapshot = %+v", snap)
	}
	if snap.Mode != "classic" || snap.Target != engine.TargetTile {
		t.Errorf("Mode=%s Target=%d", snap.Mode, snap.Target)
	}
}

func TestDeterministicSpawn(t *testing.T) {
	useConfig(t, "")
	cfg := testRuntime()

	g1 := New()
	g1.Reset(cfg)
	g2 := New()
	g2.Reset(cfg)

	moves := []core.Action{core.ActionLeft, core.ActionUp, core.ActionRight, core.ActionDown, core.ActionLeft}
	for _, a := range moves {
		g1.Step(press(a))
		g2.Step(press(a))
	}

	s1, s2 := g1.Snapshot(), g2.Snapshot()
	if s1.Board != s2.Board || s1.Score != s2.Score {
		t.Errorf("Same seed should produce the same game:\n%v\nvs\n%v", s1.Board, s2.Board)
	}
}

func TestMoveRecordsAndSpawn(t *testing.T) {
	g := newTestGame(t, ModeClassic)
	g.session.Load(engine.Board{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	res := g.Step(press(core.ActionLeft))
	if !res.Moved {
		t.Fatal("merge move should report Moved")
	}
	if res.State.Score != 4 || res.State.Moves != 1 {
		t.Errorf("state = %+v, want score 4 after one move", res.State)
	}

	board := g.Snapshot().Board
	if board[0][0] != 4 {
		t.Errorf("board[0][0] = %d, want 4", board[0][0])
	}
	if got := len(board.EmptyCells()); got != 14 {
		t.Errorf("empty cells = %d, want 14 (merge result plus one spawn)", got)
	}
	if g.lastSpawn == nil {
		t.Error("lastSpawn should be set after a changed move")
	}

	recs := g.TakeRecords()
	if len(recs) != 1 {
		t.Fatalf("TakeRecords() returned %d, want 1", len(recs))
	}
	rec := recs[0]
	if rec.Direction != engine.DirLeft || rec.ScoreGained != 4 || rec.Score != 4 {
		t.Errorf("record = %+v", rec)
	}
	// The record holds the board before the spawn
	want := engine.Board{{4, 0, 0, 0}}
	if rec.Board != want {
		t.Errorf("record board = %v, want %v", rec.Board, want)
	}

	if len(g.TakeRecords()) != 0 {
		t.Error("TakeRecords() should drain the queue")
	}
}

func TestNoChangeNoSpawn(t *testing.T) {
	g := newTestGame(t, ModeClassic)
	start := engine.Board{
		{4, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	g.session.Load(start, 0)

	res := g.Step(press(core.ActionLeft))
	if res.Moved {
		t.Error("sliding left-aligned tiles should not move")
	}
	if g.Snapshot().Board != start {
		t.Error("no-op move must not spawn a tile")
	}
	if len(g.TakeRecords()) != 0 {
		t.Error("no-op move must not produce a record")
	}
}

func TestUndoRestoresPreviousPosition(t *testing.T) {
	g := newTestGame(t, ModeClassic)
	start := engine.Board{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	g.session.Load(start, 0)

	g.Step(press(core.ActionLeft))
	g.Step(press(core.ActionUndo))

	snap := g.Snapshot()
	if snap.Board != start || snap.Score != 0 {
		t.Errorf("after undo snapshot = %+v, want the starting position", snap)
	}
	// The undone move stays counted, matching the ledger
	if snap.Moves != 1 || snap.Undone != 1 {
		t.Errorf("Moves = %d, Undone = %d, want 1 and 1", snap.Moves, snap.Undone)
	}
	if n := len(g.TakeRecords()); n != snap.Moves {
		t.Errorf("%d records for %d moves", n, snap.Moves)
	}

	// Nothing left to undo
	g.Step(press(core.ActionUndo))
	if g.Snapshot().Board != start {
		t.Error("undo with an empty history should change nothing")
	}
}

func TestClassicWinEndsGame(t *testing.T) {
	g := newTestGame(t, ModeClassic)
	g.session.Load(engine.Board{
		{1024, 1024, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	res := g.Step(press(core.ActionLeft))
	if !res.State.Won || !res.State.GameOver {
		t.Errorf("state = %+v, want won and over", res.State)
	}
	if g.Snapshot().State != StateWon {
		t.Errorf("State = %s, want won", g.Snapshot().State)
	}

	// Further moves and undo are ignored
	before := g.Snapshot().Board
	g.Step(press(core.ActionRight))
	g.Step(press(core.ActionUndo))
	if g.Snapshot().Board != before {
		t.Error("finished classic game should ignore input")
	}
}

func TestEndlessContinuesPastTarget(t *testing.T) {
	g := newTestGame(t, ModeEndless)
	g.session.Load(engine.Board{
		{1024, 1024, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	res := g.Step(press(core.ActionLeft))
	if !res.State.Won {
		t.Error("endless mode should still flag the target")
	}
	if res.State.GameOver {
		t.Error("endless mode should not end at the target")
	}

	res = g.Step(press(core.ActionRight))
	if !res.Moved {
		t.Error("endless mode should accept moves after the target")
	}
}

func TestCustomTarget(t *testing.T) {
	useConfig(t, "engine:\n  target: 128\n")
	g := New()
	g.Reset(testRuntime())
	g.session.Load(engine.Board{
		{64, 64, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	if res := g.Step(press(core.ActionLeft)); !res.State.Won {
		t.Error("reaching a configured target of 128 should win")
	}
}

func TestGameOver(t *testing.T) {
	g := newTestGame(t, ModeEndless)
	// One merge left; after it and the spawn the board is stuck
	g.session.Load(engine.Board{
		{2, 2, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{8192, 16384, 32768, 65536},
	}, 0)
	g.cfg.Engine.SpawnFourProbability = 0

	res := g.Step(press(core.ActionRight))
	if !res.Moved {
		t.Fatal("merge should move")
	}
	// Row 0 is now [0, 4, 8, 16] and the spawn fills (0,0) with a 2
	if !res.State.GameOver || g.Snapshot().State != StateGameOver {
		t.Errorf("state = %+v, want game over", res.State)
	}

	// Undo revives a dead game
	g.Step(press(core.ActionUndo))
	if g.State().GameOver {
		t.Error("undo should leave the game playable")
	}
}

func TestPause(t *testing.T) {
	g := newTestGame(t, ModeClassic)
	g.Step(press(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("P should pause")
	}

	before := g.Snapshot().Board
	g.Step(press(core.ActionLeft))
	g.Step(press(core.ActionUp))
	if g.Snapshot().Board != before {
		t.Error("paused game should ignore moves")
	}

	g.Step(press(core.ActionPause))
	if g.State().Paused {
		t.Error("P should resume")
	}
}

func TestTooSmallScreen(t *testing.T) {
	useConfig(t, "")
	g := New()
	rc := testRuntime()
	rc.ScreenW = 20
	g.Reset(rc)

	if g.Snapshot().State != StatePausedSmall {
		t.Errorf("State = %s, want paused_small_window", g.Snapshot().State)
	}

	screen := core.NewScreen(20, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("small screen should show a resize hint")
	}

	// Growing the window resumes the same game
	board := g.Snapshot().Board
	g.Resize(80, 24)
	if snap := g.Snapshot(); snap.State != StatePlaying || snap.Board != board {
		t.Errorf("after Resize snapshot = %+v, want the same game playing", snap)
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, ModeClassic)
	g.session.Load(engine.Board{
		{2, 0, 0, 0},
		{0, 2048, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 16},
	}, 1234)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"Score: 1234", "Target: 2048", "2048", "16", "Classic"} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q", want)
		}
	}

	// Tiles are colored by value
	found := false
	for y := 0; y < screen.Height(); y++ {
		for x := 0; x < screen.Width(); x++ {
			if c := screen.GetCell(x, y); c.Rune == '6' && c.Color == core.ColorOrange {
				found = true
			}
		}
	}
	if !found {
		t.Error("16 tile should be drawn in orange")
	}
}

func TestWinNeedsExactTarget(t *testing.T) {
	g := newTestGame(t, ModeEndless)
	// A loaded board already past the target is not a win by itself
	g.session.Load(engine.Board{
		{4096, 0, 0, 0},
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, 0)

	res := g.Step(press(core.ActionLeft))
	if !res.Moved {
		t.Fatal("merge should move")
	}
	if res.State.Won {
		t.Error("win needs a tile equal to the target")
	}
}
