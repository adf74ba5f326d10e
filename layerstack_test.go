package easel

import (
	"bytes"
	"errors"
	"testing"
)

func testStack(t *testing.T, opts ...StackOption) *LayerStack {
	t.Helper()
	s, err := NewLayerStack(64, 64, opts...)
	if err != nil {
		t.Fatalf("NewLayerStack: %v", err)
	}
	return s
}

// TestNewLayerStackBackground verifies the constructor installs an opaque,
// locked background layer at position 0.
func TestNewLayerStackBackground(t *testing.T) {
	s := testStack(t, WithBackground(Black))

	bg := s.Background()
	if !bg.IsBackground {
		t.Fatal("bottom layer is not marked background")
	}
	if bg.Position != 0 {
		t.Errorf("background position = %d, want 0", bg.Position)
	}
	if !bg.Locked {
		t.Error("background should be locked by default")
	}
	if got := bg.Buffer.GetPixel(10, 10); !colorsClose(got, Black) {
		t.Errorf("background fill = %+v, want opaque black", got)
	}
}

// TestNewLayerStackInvalidDimensions verifies the dimension guard.
func TestNewLayerStackInvalidDimensions(t *testing.T) {
	if _, err := NewLayerStack(0, 10); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("err = %v, want ErrInvalidDimensions", err)
	}
	if _, err := NewLayerStack(10, -1); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("err = %v, want ErrInvalidDimensions", err)
	}
}

// TestCreateLayerCapacity verifies the maxLayers bound: with MaxLayers=2
// and the background present, exactly one creation succeeds.
func TestCreateLayerCapacity(t *testing.T) {
	cfg := DefaultStackConfig()
	cfg.MaxLayers = 2
	s := testStack(t, WithStackConfig(cfg))

	if _, err := s.CreateLayer("ok"); err != nil {
		t.Fatalf("first CreateLayer: %v", err)
	}
	if s.LayerCount() != 2 {
		t.Fatalf("layer count = %d, want 2", s.LayerCount())
	}
	if _, err := s.CreateLayer("overflow"); !errors.Is(err, ErrTooManyLayers) {
		t.Errorf("err = %v, want ErrTooManyLayers", err)
	}
}

// TestCreateLayerActivation verifies the first non-background layer
// becomes active automatically, and later ones do not steal activity.
func TestCreateLayerActivation(t *testing.T) {
	s := testStack(t)

	first, _ := s.CreateLayer("first")
	if s.ActiveLayer().ID != first.ID {
		t.Error("first paint layer did not become active")
	}

	s.CreateLayer("second")
	if s.ActiveLayer().ID != first.ID {
		t.Error("creating a second layer stole the active pointer")
	}
}

// TestDuplicateLayer verifies pixel content and presentation properties
// are copied while identity is fresh.
func TestDuplicateLayer(t *testing.T) {
	s := testStack(t)
	src, _ := s.CreateLayer("src", WithLayerOpacity(0.5), WithLayerBlend(BlendMultiply))
	src.Buffer.SetPixel(5, 5, White)

	dup := s.DuplicateLayer(src.ID)
	if dup == nil {
		t.Fatal("DuplicateLayer returned nil")
	}
	if dup.ID == src.ID {
		t.Error("duplicate shares the source id")
	}
	if dup.Opacity != 0.5 || dup.Blend != BlendMultiply {
		t.Errorf("duplicate props = (%v, %v), want (0.5, multiply)", dup.Opacity, dup.Blend)
	}
	if !bytes.Equal(dup.Buffer.Data(), src.Buffer.Data()) {
		t.Error("duplicate pixels differ from source")
	}

	src.Buffer.SetPixel(6, 6, White)
	if dup.Buffer.GetPixel(6, 6).A != 0 {
		t.Error("duplicate buffer is not independent of the source")
	}

	if s.DuplicateLayer("no-such-id") != nil {
		t.Error("duplicating an unknown id should return nil")
	}
}

// TestDeleteLayer verifies deletion, the background refusal, and active
// pointer reassignment to the next-lowest survivor.
func TestDeleteLayer(t *testing.T) {
	s := testStack(t)
	a, _ := s.CreateLayer("a")
	b, _ := s.CreateLayer("b")

	if s.DeleteLayer(s.Background().ID) {
		t.Error("background deletion must always fail")
	}
	if s.DeleteLayer("no-such-id") {
		t.Error("deleting an unknown id should return false")
	}

	s.SetActiveLayer(b.ID)
	if !s.DeleteLayer(b.ID) {
		t.Fatal("DeleteLayer failed")
	}
	if s.ActiveLayer().ID != a.ID {
		t.Errorf("active after delete = %q, want next-lowest survivor %q",
			s.ActiveLayer().ID, a.ID)
	}
	if s.LayerCount() != 2 {
		t.Errorf("layer count = %d, want 2", s.LayerCount())
	}
}

// TestMergeDown verifies compositing onto the layer below and the refusal
// cases (nothing below, locked below).
func TestMergeDown(t *testing.T) {
	s := testStack(t, WithBackground(Black))
	a, _ := s.CreateLayer("a")
	b, _ := s.CreateLayer("b")
	b.Buffer.SetPixel(3, 3, White)

	// Background below "a" is locked: merge refused.
	if s.MergeDown(a.ID) {
		t.Error("merge onto locked background should fail")
	}

	if !s.MergeDown(b.ID) {
		t.Fatal("MergeDown failed")
	}
	if s.Layer(b.ID) != nil {
		t.Error("merged layer still exists")
	}
	if got := a.Buffer.GetPixel(3, 3); !colorsClose(got, White) {
		t.Errorf("merged pixel = %+v, want white on the layer below", got)
	}
}

// TestMergeVisible verifies the merged layer reproduces the pre-merge
// composite and sources are hidden, not deleted.
func TestMergeVisible(t *testing.T) {
	s := testStack(t, WithBackground(Black))
	a, _ := s.CreateLayer("a")
	a.Buffer.SetPixel(10, 10, RGBA{1, 0, 0, 1})
	b, _ := s.CreateLayer("b")
	b.Buffer.SetPixel(20, 20, RGBA{0, 1, 0, 1})

	pre := s.Composite()

	merged := s.MergeVisible()
	if merged == nil {
		t.Fatal("MergeVisible returned nil")
	}
	if s.Layer(a.ID) == nil || s.Layer(b.ID) == nil {
		t.Fatal("sources were deleted, want hidden")
	}
	if s.Layer(a.ID).Visible || s.Layer(b.ID).Visible {
		t.Error("sources should be hidden after merge")
	}

	// Re-showing the hidden sources must reconstruct the pre-merge look.
	s.SetLayerVisibility(a.ID, true)
	s.SetLayerVisibility(b.ID, true)
	post := s.Composite()
	if !pixmapsClose(pre, post, 1) {
		t.Error("composite after re-showing sources differs from pre-merge composite")
	}
}

// TestFlattenImage verifies flatten leaves exactly one non-background
// layer and no groups.
func TestFlattenImage(t *testing.T) {
	s := testStack(t, WithBackground(Black))
	a, _ := s.CreateLayer("a")
	a.Buffer.SetPixel(10, 10, White)
	s.CreateLayer("b")
	g := s.CreateGroup("g")
	s.AddLayerToGroup(a.ID, g.ID)

	pre := s.Composite()
	flat := s.FlattenImage()
	if flat == nil {
		t.Fatal("FlattenImage returned nil")
	}

	if s.LayerCount() != 2 {
		t.Errorf("layer count after flatten = %d, want 2 (background + flattened)", s.LayerCount())
	}
	if s.Group(g.ID) != nil {
		t.Error("group survived flatten")
	}
	if s.ActiveLayer().ID != flat.ID {
		t.Error("flattened layer should be active")
	}
	if !pixmapsClose(pre, s.Composite(), 1) {
		t.Error("composite changed across flatten")
	}
}

// TestOpacityClamping verifies setter clamping at both ends.
func TestOpacityClamping(t *testing.T) {
	s := testStack(t)
	l, _ := s.CreateLayer("l")

	s.SetLayerOpacity(l.ID, -0.5)
	if got := s.Layer(l.ID).Opacity; got != 0 {
		t.Errorf("opacity after -0.5 = %v, want 0", got)
	}
	s.SetLayerOpacity(l.ID, 1.7)
	if got := s.Layer(l.ID).Opacity; got != 1 {
		t.Errorf("opacity after 1.7 = %v, want 1", got)
	}
	if s.SetLayerOpacity("no-such-id", 0.5) {
		t.Error("setting opacity on unknown id should return false")
	}
}

// TestBackgroundInvariants verifies the background can never be deleted,
// lock-toggled, or displaced from position 0.
func TestBackgroundInvariants(t *testing.T) {
	s := testStack(t)
	l, _ := s.CreateLayer("l")
	bg := s.Background()

	if s.DeleteLayer(bg.ID) {
		t.Error("background deleted")
	}
	if s.SetLayerLocked(bg.ID, false) {
		t.Error("background lock toggled")
	}
	if s.MoveLayerUp(bg.ID) || s.MoveLayerDown(bg.ID) ||
		s.MoveLayerToTop(bg.ID) || s.MoveLayerToBottom(bg.ID) {
		t.Error("background moved")
	}
	if s.ReorderLayer(l.ID, 0) {
		t.Error("another layer took position 0")
	}
	if bg.Position != 0 {
		t.Errorf("background position = %d, want 0", bg.Position)
	}
}

// TestReorderLayer verifies ordering operations renumber positions and
// respect the reserved bottom slot.
func TestReorderLayer(t *testing.T) {
	s := testStack(t)
	a, _ := s.CreateLayer("a")
	b, _ := s.CreateLayer("b")
	c, _ := s.CreateLayer("c")

	if !s.MoveLayerToTop(a.ID) {
		t.Fatal("MoveLayerToTop failed")
	}
	order := s.Layers()
	if order[3].ID != a.ID || order[1].ID != b.ID || order[2].ID != c.ID {
		t.Errorf("order after move-to-top = [%s %s %s], want [b c a]",
			order[1].Name, order[2].Name, order[3].Name)
	}
	for i, l := range order {
		if l.Position != i {
			t.Errorf("layer %s position = %d, want %d", l.Name, l.Position, i)
		}
	}

	if !s.MoveLayerToBottom(a.ID) {
		t.Fatal("MoveLayerToBottom failed")
	}
	if s.Layers()[1].ID != a.ID {
		t.Error("move-to-bottom should place the layer just above background")
	}

	if !s.MoveLayerDown(c.ID) {
		t.Fatal("MoveLayerDown failed")
	}
	s.ReorderLayer(b.ID, 99)
	if s.Layers()[3].ID != b.ID {
		t.Error("reorder beyond the top should clamp to the top")
	}
}

// TestGroups verifies group CRUD and atomic membership reassignment.
func TestGroups(t *testing.T) {
	s := testStack(t)
	l, _ := s.CreateLayer("l")

	g1 := s.CreateGroup("g1")
	g2 := s.CreateGroup("g2")

	if !s.AddLayerToGroup(l.ID, g1.ID) {
		t.Fatal("AddLayerToGroup failed")
	}
	if !g1.contains(l.ID) || l.GroupID != g1.ID {
		t.Error("membership not recorded")
	}

	// Reassignment must remove from g1 before adding to g2.
	if !s.AddLayerToGroup(l.ID, g2.ID) {
		t.Fatal("reassignment failed")
	}
	if g1.contains(l.ID) {
		t.Error("layer still listed in the old group")
	}
	if !g2.contains(l.ID) || l.GroupID != g2.ID {
		t.Error("layer not listed in the new group")
	}

	if !s.RemoveLayerFromGroup(l.ID) {
		t.Fatal("RemoveLayerFromGroup failed")
	}
	if l.GroupID != "" || g2.contains(l.ID) {
		t.Error("layer still grouped after removal")
	}

	if !s.DeleteGroup(g1.ID) {
		t.Error("DeleteGroup failed")
	}
	if s.DeleteGroup("no-such-id") {
		t.Error("deleting an unknown group should return false")
	}
}

// TestGroupVisibilityGatesComposite verifies a hidden group hides its
// member layers from the composite.
func TestGroupVisibilityGatesComposite(t *testing.T) {
	s := testStack(t, WithBackground(Black))
	l, _ := s.CreateLayer("l")
	l.Buffer.SetPixel(10, 10, White)
	g := s.CreateGroup("g")
	s.AddLayerToGroup(l.ID, g.ID)

	g.Visible = false
	comp := s.Composite()
	if got := comp.GetPixel(10, 10); !colorsClose(got, Black) {
		t.Errorf("hidden group member leaked into composite: %+v", got)
	}
}

// TestSelection verifies the selection set is independent of the active
// layer pointer.
func TestSelection(t *testing.T) {
	s := testStack(t)
	a, _ := s.CreateLayer("a")
	b, _ := s.CreateLayer("b")

	if !s.SelectLayer(a.ID) || !s.SelectLayer(b.ID) {
		t.Fatal("SelectLayer failed")
	}
	if got := len(s.SelectedLayers()); got != 2 {
		t.Errorf("selected = %d, want 2", got)
	}
	if s.ActiveLayer().ID == b.ID {
		t.Error("selection changed the active layer")
	}

	if !s.DeselectLayer(a.ID) {
		t.Fatal("DeselectLayer failed")
	}
	if s.IsSelected(a.ID) {
		t.Error("layer still selected after deselect")
	}
	s.ClearSelection()
	if len(s.SelectedLayers()) != 0 {
		t.Error("ClearSelection left layers selected")
	}
	if s.SelectLayer("no-such-id") {
		t.Error("selecting an unknown id should return false")
	}
}

// TestCompositeSkipsInvisible verifies invisible layers and zero-opacity
// layers do not contribute.
func TestCompositeSkipsInvisible(t *testing.T) {
	s := testStack(t, WithBackground(Black))
	l, _ := s.CreateLayer("l")
	l.Buffer.SetPixel(10, 10, White)

	s.SetLayerVisibility(l.ID, false)
	if got := s.Composite().GetPixel(10, 10); !colorsClose(got, Black) {
		t.Errorf("invisible layer contributed: %+v", got)
	}

	s.SetLayerVisibility(l.ID, true)
	s.SetLayerOpacity(l.ID, 0)
	if got := s.Composite().GetPixel(10, 10); !colorsClose(got, Black) {
		t.Errorf("zero-opacity layer contributed: %+v", got)
	}
}

// TestThumbnailFlush verifies dirty coalescing, regeneration, and the
// per-layer callback.
func TestThumbnailFlush(t *testing.T) {
	s := testStack(t)
	l, _ := s.CreateLayer("l")
	l.Buffer.SetPixel(1, 1, White)

	updates := map[string]int{}
	s.OnThumbnailUpdate(func(id string, thumb *Pixmap) {
		updates[id]++
		if thumb == nil {
			t.Error("callback received nil thumbnail")
		}
	})

	// Repeated invalidations coalesce into one regeneration.
	s.InvalidateLayer(l.ID)
	s.InvalidateLayer(l.ID)
	s.InvalidateLayer(l.ID)
	s.FlushPendingThumbnails()

	if updates[l.ID] != 1 {
		t.Errorf("thumbnail updates for layer = %d, want 1", updates[l.ID])
	}
	if s.Layer(l.ID).Thumbnail == nil {
		t.Error("thumbnail not stored on the layer")
	}
	if s.PendingThumbnails() != 0 {
		t.Error("dirty set not drained")
	}

	// A second flush with nothing dirty is a no-op.
	s.FlushPendingThumbnails()
	if updates[l.ID] != 1 {
		t.Error("flush without invalidation regenerated thumbnails")
	}
}

// TestOnLayerChange verifies the single-slot change callback fires on
// mutations and replacement semantics hold.
func TestOnLayerChange(t *testing.T) {
	s := testStack(t)

	var first, second int
	s.OnLayerChange(func() { first++ })
	s.OnLayerChange(func() { second++ })

	s.CreateLayer("l")
	if first != 0 {
		t.Error("replaced subscriber was still notified")
	}
	if second == 0 {
		t.Error("subscriber not notified on CreateLayer")
	}
}

// TestClearLayer verifies clearing respects locks and refills the
// background with its color.
func TestClearLayer(t *testing.T) {
	s := testStack(t, WithBackground(Black))
	l, _ := s.CreateLayer("l")
	l.Buffer.SetPixel(4, 4, White)

	if !s.ClearLayer(l.ID) {
		t.Fatal("ClearLayer failed")
	}
	if l.Buffer.GetPixel(4, 4).A != 0 {
		t.Error("layer not transparent after clear")
	}

	s.SetLayerLocked(l.ID, true)
	if s.ClearLayer(l.ID) {
		t.Error("cleared a locked layer")
	}

	if !s.ClearLayer(s.Background().ID) {
		t.Fatal("background clear failed")
	}
	if got := s.Background().Buffer.GetPixel(4, 4); !colorsClose(got, Black) {
		t.Errorf("background after clear = %+v, want its fill color", got)
	}
}

// pixmapsClose compares two pixmaps allowing tol per-byte quantization
// error.
func pixmapsClose(a, b *Pixmap, tol int) bool {
	da, db := a.Data(), b.Data()
	if len(da) != len(db) {
		return false
	}
	for i := range da {
		d := int(da[i]) - int(db[i])
		if d < -tol || d > tol {
			return false
		}
	}
	return true
}
