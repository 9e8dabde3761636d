package noise

import "testing"

func TestDeterminism(t *testing.T) {
	a := New(12345, 2, 2, 3, 0.03)
	b := New(12345, 2, 2, 3, 0.03)
	for i := -50; i <= 50; i += 7 {
		x, z := float64(i), float64(-i*3)
		if a.Sample2(x, z) != b.Sample2(x, z) {
			t.Fatalf("Sample2 mismatch at (%v,%v)", x, z)
		}
		if a.Sample3(x, 4, z) != b.Sample3(x, 4, z) {
			t.Fatalf("Sample3 mismatch at (%v,%v)", x, z)
		}
	}
}

func TestSeedChangesOutput(t *testing.T) {
	a := New(1, 2, 2, 3, 0.03)
	b := New(2, 2, 2, 3, 0.03)
	same := true
	for i := 1; i < 64; i++ {
		if a.Sample2(float64(i), float64(i*2)) != b.Sample2(float64(i), float64(i*2)) {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds produced identical noise")
	}
}

func TestSampleRange(t *testing.T) {
	s := New(42, 2, 2, 3, 0.05)
	for i := -200; i <= 200; i += 3 {
		v := s.Sample2(float64(i), float64(i)*0.7)
		if v < -1 || v > 1 {
			t.Fatalf("Sample2 out of range: %v", v)
		}
	}
}

func TestHeightBounds(t *testing.T) {
	s := New(99, 2, 2, 3, 0.05)
	for i := -100; i <= 100; i += 5 {
		h := s.Height(float64(i), float64(-i), 5, 40)
		if h < 5 || h > 40 {
			t.Fatalf("Height(%d) = %d outside [5,40]", i, h)
		}
	}
}
