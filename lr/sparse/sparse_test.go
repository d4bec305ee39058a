package sparse

import "testing"

func TestMatrixSetAndGet(t *testing.T) {
	M := NewMatrix[int](10, 10, -1)
	M.Set(2, 3, 4711)
	M.Set(0, 9, 1)
	M.Set(9, 0, 2)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected M(2,3) to be 4711, is %d", v)
	}
	if v := M.Value(4, 4); v != -1 {
		t.Errorf("expected M(4,4) to be null value, is %d", v)
	}
	if _, ok := M.Lookup(4, 4); ok {
		t.Errorf("expected M(4,4) not to be set")
	}
	if M.ValueCount() != 3 {
		t.Errorf("expected 3 values, have %d", M.ValueCount())
	}
}

func TestMatrixOverwrite(t *testing.T) {
	M := NewMatrix[string](3, 3, "")
	M.Set(1, 1, "a")
	M.Set(1, 1, "b")
	if v := M.Value(1, 1); v != "b" {
		t.Errorf("expected M(1,1) to be overwritten, is %q", v)
	}
	if M.ValueCount() != 1 {
		t.Errorf("expected 1 value, have %d", M.ValueCount())
	}
	M.Set(5, 5, "x") // out of bounds
	if M.ValueCount() != 1 {
		t.Errorf("expected out of bounds position to be ignored")
	}
}

func TestMatrixOrder(t *testing.T) {
	M := NewMatrix[int](5, 5, 0)
	M.Set(3, 1, 31)
	M.Set(0, 4, 4)
	M.Set(3, 0, 30)
	M.Set(1, 2, 12)
	var prev [2]int
	first := true
	M.Each(func(i, j int, v int) {
		if !first && (i < prev[0] || i == prev[0] && j <= prev[1]) {
			t.Errorf("positions not in order: (%d,%d) after (%d,%d)", i, j, prev[0], prev[1])
		}
		if v != 10*i+j {
			t.Errorf("unexpected value %d at (%d,%d)", v, i, j)
		}
		prev, first = [2]int{i, j}, false
	})
}
